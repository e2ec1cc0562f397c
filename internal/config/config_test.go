package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		DBSSLMode:           "disable",
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		JWTTTLHours:         24,
		DBPassword:          "secure-password",
		Port:                "8080",
		MutationMaxAttempts: 3,
		CommentRemovalMode:  CommentRemovalByID,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.DBSSLMode = "require"
	c.JWTSecret = defaultJWTSecret
	assert.Error(t, c.Validate())

	c.JWTSecret = "short"
	assert.Error(t, c.Validate())

	c.JWTSecret = "secure-secret-at-least-32-chars-long"
	c.DBPassword = "password"
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateCommentRemovalMode(t *testing.T) {
	for _, mode := range []string{CommentRemovalByID, CommentRemovalLegacy, ""} {
		c := validConfig()
		c.CommentRemovalMode = mode
		assert.NoError(t, c.Validate(), mode)
	}

	c := validConfig()
	c.CommentRemovalMode = "by_author"
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateMutationAttempts(t *testing.T) {
	c := validConfig()
	c.MutationMaxAttempts = 0
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("COMMENT_REMOVAL_MODE")
	defer os.Unsetenv("GITHUB_API_URL")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("COMMENT_REMOVAL_MODE", " Legacy ")
	os.Setenv("GITHUB_API_URL", "http://localhost:9999/")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, CommentRemovalLegacy, c.CommentRemovalMode)
	assert.Equal(t, "http://localhost:9999", c.GithubAPIURL)
	assert.Equal(t, 3, c.MutationMaxAttempts)
	assert.Equal(t, "8375", c.Port)
	assert.False(t, c.DBAutoMigrate)
}
