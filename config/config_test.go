package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "q09xn9h8")

	conf, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "production", conf.Dataset)
	assert.Equal(t, "2024-02-12", conf.APIVersion)
	assert.True(t, conf.UseCDN)
	assert.Equal(t, 300*time.Millisecond, conf.QuietPeriod)
	assert.Equal(t, 10, conf.SummaryLimit)
	assert.Equal(t, "localhost:8080", conf.Addr())
	assert.False(t, conf.CanWrite())
}

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SANITY_PROJECT_ID=abc123\nSANITY_API_TOKEN=secret\nSEARCH_QUIET_PERIOD=250ms\nBIND_PORT=9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	for _, key := range []string{"SANITY_PROJECT_ID", "SANITY_API_TOKEN", "SEARCH_QUIET_PERIOD", "BIND_PORT"} {
		old, ok := os.LookupEnv(key)
		t.Cleanup(func() {
			if ok {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	conf, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", conf.ProjectID)
	assert.True(t, conf.CanWrite())
	assert.Equal(t, 250*time.Millisecond, conf.QuietPeriod)
	assert.Equal(t, "localhost:9090", conf.Addr())
}

func TestNewMissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "abc123")

	_, err := New(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			ContentStore: ContentStore{ProjectID: "abc"},
			Search:       Search{QuietPeriod: 300 * time.Millisecond, SummaryLimit: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"quiet period too short", func(c *Config) { c.QuietPeriod = 50 * time.Millisecond }, true},
		{"quiet period too long", func(c *Config) { c.QuietPeriod = time.Second }, true},
		{"zero summary limit", func(c *Config) { c.SummaryLimit = 0 }, true},
		{"no project", func(c *Config) { c.ProjectID = "" }, true},
		{"no project offline", func(c *Config) { c.ProjectID = ""; c.Offline = true }, false},
		{"no project with base url", func(c *Config) { c.ProjectID = ""; c.BaseURL = "http://localhost" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
