// Package github fetches a user's recent public repositories for profile pages.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/cache"
	"github.com/vincentFaye/dev-social-network/internal/middleware"
	"github.com/vincentFaye/dev-social-network/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 5 * time.Second
	userAgent      = "devsocial-api"
	maxBodyBytes   = 1 << 20
)

// Outcome label values for observability.GithubRequests.
const (
	outcomeOK       = "ok"
	outcomeCached   = "cached"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid_username"
	outcomeError    = "error"
)

// ErrProfileNotFound is returned when GitHub has no such user or refuses
// the lookup.
var ErrProfileNotFound = errors.New("no github profile found")

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,39}$`)

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client lists repositories through the GitHub REST API, caching successful
// responses in Redis when a client is given.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	rdb     *redis.Client
}

func NewClient(cfg Config, rdb *redis.Client) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		rdb:     rdb,
	}
}

// ValidUsername reports whether name is a syntactically valid GitHub login.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// RecentRepos returns the raw JSON listing of the user's five most recently
// created repositories, as GitHub sent it.
func (c *Client) RecentRepos(ctx context.Context, username string) ([]byte, error) {
	if !ValidUsername(username) {
		observability.GithubRequests.WithLabelValues(outcomeInvalid).Inc()
		return nil, ErrProfileNotFound
	}

	key := cache.GithubReposKey(username)
	if body := cache.GetBytes(ctx, c.rdb, key); body != nil {
		observability.GithubRequests.WithLabelValues(outcomeCached).Inc()
		return body, nil
	}

	ctx, span := observability.StartClientSpan(ctx, "github", "list_repos")
	body, err := c.fetch(ctx, username)
	observability.EndSpan(span, err)

	switch {
	case err == nil:
		observability.GithubRequests.WithLabelValues(outcomeOK).Inc()
		cache.SetBytes(ctx, c.rdb, key, body, cache.GithubReposTTL)
		return body, nil
	case errors.Is(err, ErrProfileNotFound):
		observability.GithubRequests.WithLabelValues(outcomeNotFound).Inc()
		return nil, err
	default:
		observability.GithubRequests.WithLabelValues(outcomeError).Inc()
		middleware.Logger.ErrorContext(ctx, "github request failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
}

func (c *Client) fetch(ctx context.Context, username string) ([]byte, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "desc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, ErrProfileNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	return body, nil
}
