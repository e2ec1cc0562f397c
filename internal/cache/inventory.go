package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	GithubReposKeyPrefix = "github:repos:%s"
	ProfilesListKey      = "profiles:all"
)

const (
	GithubReposTTL  = 10 * time.Minute
	ProfilesListTTL = 1 * time.Minute
)

// GithubReposKey is case-insensitive in username, like GitHub logins.
func GithubReposKey(username string) string {
	return fmt.Sprintf(GithubReposKeyPrefix, strings.ToLower(username))
}

func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}

// InvalidateProfiles drops the cached public profile list. Call it after
// any profile write.
func InvalidateProfiles(ctx context.Context, rdb *redis.Client) {
	Invalidate(ctx, rdb, ProfilesListKey)
}
