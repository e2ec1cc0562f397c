package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reposBody = `[{"id":1,"name":"first"},{"id":2,"name":"second"}]`

func newUpstream(t *testing.T, status int, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("direction"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(reposBody))
		} else {
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecentRepos_PassesBodyThrough(t *testing.T) {
	var hits int32
	srv := newUpstream(t, http.StatusOK, &hits)

	body, err := NewClient(Config{BaseURL: srv.URL}, nil).RecentRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, reposBody, string(body))
	assert.Equal(t, int32(1), hits)
}

func TestRecentRepos_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, Token: "s3cret"}, nil).RecentRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestRecentRepos_UpstreamNotFound(t *testing.T) {
	var hits int32
	srv := newUpstream(t, http.StatusNotFound, &hits)

	_, err := NewClient(Config{BaseURL: srv.URL}, nil).RecentRepos(context.Background(), "octocat")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRecentRepos_InvalidUsernameSkipsUpstream(t *testing.T) {
	var hits int32
	srv := newUpstream(t, http.StatusOK, &hits)
	client := NewClient(Config{BaseURL: srv.URL}, nil)

	for _, name := range []string{"", "bad/name", "../etc", "has space", "a_b"} {
		_, err := client.RecentRepos(context.Background(), name)
		assert.ErrorIs(t, err, ErrProfileNotFound, name)
	}
	assert.Equal(t, int32(0), hits)
}

func TestRecentRepos_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil).RecentRepos(context.Background(), "octocat")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
}

func TestRecentRepos_CachesSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	var hits int32
	srv := newUpstream(t, http.StatusOK, &hits)
	client := NewClient(Config{BaseURL: srv.URL}, rdb)
	ctx := context.Background()

	first, err := client.RecentRepos(ctx, "octocat")
	require.NoError(t, err)
	second, err := client.RecentRepos(ctx, "OctoCat")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits)
	assert.True(t, mr.Exists(cache.GithubReposKey("octocat")))
	ttl := mr.TTL(cache.GithubReposKey("octocat"))
	assert.Equal(t, cache.GithubReposTTL, ttl)
}

func TestRecentRepos_DoesNotCacheMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	var hits int32
	srv := newUpstream(t, http.StatusNotFound, &hits)
	client := NewClient(Config{BaseURL: srv.URL}, rdb)

	for i := 0; i < 2; i++ {
		_, err := client.RecentRepos(context.Background(), "octocat")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	}
	assert.Equal(t, int32(2), hits)
	assert.False(t, mr.Exists(cache.GithubReposKey("octocat")))
}
