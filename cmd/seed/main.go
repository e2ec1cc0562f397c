// Command seed populates the database with fake developers, profiles and posts.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/vincentFaye/dev-social-network/internal/config"
	"github.com/vincentFaye/dev-social-network/internal/database"
	"github.com/vincentFaye/dev-social-network/internal/middleware"
	"github.com/vincentFaye/dev-social-network/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 for random)")
	flag.Parse()

	log := middleware.Logger

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		log.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	res, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		RandSeed:    *randSeed,
	})
	if err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info("All done", "users", res.Users, "profiles", res.Profiles, "posts", res.Posts,
		"password", seed.DefaultPassword)
}
