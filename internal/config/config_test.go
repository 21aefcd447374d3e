package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		wantErr           bool
		wantErrorContains []string
		check             func(t *testing.T, got *Config)
	}{
		{
			name:          "defaults only",
			configContent: "",
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, 8080, got.Server.Port)
				assert.Equal(t, time.Hour, got.Cache.CoursesTTL)
				assert.Equal(t, 24*time.Hour, got.Cache.RatingsTTL)
				assert.Equal(t, 30*time.Minute, got.Cache.SchedulesTTL)
				assert.Equal(t, 30*time.Second, got.Catalog.Timeout)
				assert.Equal(t, uint(3), got.Retry.MaxAttempts)
				assert.Equal(t, 2*time.Second, got.Retry.BaseDelay)
				assert.Equal(t, 10*time.Second, got.Retry.MaxDelay)
				assert.Equal(t, 80.0, got.Ratings.Threshold)
				assert.Equal(t, 2.0, got.Match.Rating)
			},
		},
		{
			name: "custom values override defaults",
			configContent: `cache:
  memory_size: 64
  use_redis: true
  courses_ttl: 10m
catalog:
  base_url: https://banner.example.edu
  timeout: 5s
retry:
  max_attempts: 5
  base_delay: 500ms
`,
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, 64, got.Cache.MemorySize)
				assert.True(t, got.Cache.UseRedis)
				assert.Equal(t, 10*time.Minute, got.Cache.CoursesTTL)
				assert.Equal(t, "https://banner.example.edu", got.Catalog.BaseURL)
				assert.Equal(t, 5*time.Second, got.Catalog.Timeout)
				assert.Equal(t, uint(5), got.Retry.MaxAttempts)
				assert.Equal(t, 500*time.Millisecond, got.Retry.BaseDelay)
				// untouched defaults survive
				assert.Equal(t, 24*time.Hour, got.Cache.RatingsTTL)
			},
		},
		{
			name: "secrets come from the environment",
			env: map[string]string{
				"DB_PASSWORD":       "db-secret",
				"REDIS_PASSWORD":    "redis-secret",
				"RMP_AUTHORIZATION": "Basic dGVzdDp0ZXN0",
			},
			check: func(t *testing.T, got *Config) {
				assert.Equal(t, "db-secret", got.Database.Password)
				assert.Equal(t, "redis-secret", got.Redis.Password)
				assert.Equal(t, "Basic dGVzdDp0ZXN0", got.Ratings.Authorization)
			},
		},
		{
			name: "invalid YAML format",
			configContent: `cache:
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "non-positive TTL fails validation",
			configContent: `cache:
  courses_ttl: 0s
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "courses_ttl"},
		},
		{
			name: "zero retry attempts fail validation",
			configContent: `retry:
  max_attempts: 0
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "max_attempts"},
		},
		{
			name: "negative weight fails validation",
			configContent: `match:
  rating: -1
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "rating"},
		},
		{
			name: "malformed catalog URL fails validation",
			configContent: `catalog:
  base_url: "not a url"
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "base_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			var configPath string
			if tt.configContent != "" {
				configPath = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)

			got, err := loader.Load()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}
