// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"

	"github.com/vincentFaye/dev-social-network/internal/middleware"
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/repository"
	"github.com/vincentFaye/dev-social-network/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// RandSeed makes a run reproducible; zero picks a random source.
	RandSeed int64
	// PasswordCost defaults to bcrypt.DefaultCost.
	PasswordCost int
}

// Result counts what a seeding run wrote.
type Result struct {
	Users    int
	Profiles int
	Posts    int
	Likes    int
	Comments int
}

type seeder struct {
	factory  *Factory
	users    repository.UserRepository
	posts    *service.PostService
	profiles *service.ProfileService
}

// Seed populates the database with users, profiles and posts. Writes go
// through the services so seeded rows satisfy the same rules as API writes.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	log := middleware.Logger
	log.Info("starting database seeding", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Warn("could not clear existing data, continuing", "error", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	s := &seeder{
		factory: NewFactory(opts.RandSeed),
		users:   userRepo,
		posts: service.NewPostService(repository.NewPostRepository(db), userRepo,
			service.PostServiceOptions{MaxAttempts: 3}),
		profiles: service.NewProfileService(repository.NewProfileRepository(db), userRepo, 3),
	}

	res := &Result{}
	users, err := s.createUsers(ctx, opts.NumUsers, opts.PasswordCost)
	if err != nil {
		return res, fmt.Errorf("failed to create users: %w", err)
	}
	res.Users = len(users)
	log.Info("test users created", "count", res.Users)

	if res.Profiles, err = s.createProfiles(ctx, users); err != nil {
		return res, fmt.Errorf("failed to create profiles: %w", err)
	}
	log.Info("profiles created", "count", res.Profiles)

	if err := s.createPosts(ctx, users, opts.NumPosts, res); err != nil {
		return res, fmt.Errorf("failed to create posts: %w", err)
	}
	log.Info("posts created", "count", res.Posts, "likes", res.Likes, "comments", res.Comments)

	log.Info("database seeding completed")
	return res, nil
}

func clearData(db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE posts, profiles, users RESTART IDENTITY CASCADE;`).Error
	}
	for _, table := range []string{"posts", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) createUsers(ctx context.Context, count, cost int) ([]models.User, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		id := s.factory.Identity(i)
		user := models.User{
			Name:     id.Name,
			Email:    id.Email,
			Password: string(hashed),
			Avatar:   models.GravatarURL(id.Email),
		}
		if err := s.users.Create(ctx, &user); err != nil {
			middleware.Logger.Warn("failed to create user", "email", id.Email, "error", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			middleware.Logger.Info("seeding users", "created", i)
		}
	}
	return users, nil
}

// createProfiles gives most users a profile with a job history and schooling.
func (s *seeder) createProfiles(ctx context.Context, users []models.User) (int, error) {
	created := 0
	for _, u := range users {
		if !s.factory.Chance(0.8) {
			continue
		}
		if _, err := s.profiles.Upsert(ctx, u.ID, s.factory.Profile()); err != nil {
			return created, err
		}
		created++

		for i, n := 0, 1+s.factory.Intn(3); i < n; i++ {
			if _, err := s.profiles.AddExperience(ctx, u.ID, s.factory.Experience(i == n-1 && s.factory.Chance(0.5))); err != nil {
				return created, err
			}
		}
		if s.factory.Chance(0.7) {
			if _, err := s.profiles.AddEducation(ctx, u.ID, s.factory.Education()); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

func (s *seeder) createPosts(ctx context.Context, users []models.User, count int, res *Result) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		author := users[s.factory.Intn(len(users))]
		post, err := s.posts.Create(ctx, author.ID, s.factory.PostText())
		if err != nil {
			return err
		}
		res.Posts++

		for _, u := range users {
			if s.factory.Chance(0.3) {
				if _, err := s.posts.Like(ctx, u.ID, post.ID); err != nil {
					return err
				}
				res.Likes++
			}
		}
		for j, n := 0, s.factory.Intn(4); j < n; j++ {
			commenter := users[s.factory.Intn(len(users))]
			if _, err := s.posts.AddComment(ctx, commenter.ID, post.ID, s.factory.CommentText()); err != nil {
				return err
			}
			res.Comments++
		}
	}
	return nil
}
