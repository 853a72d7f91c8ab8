// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/internal/config"
	"github.com/threadline/threadline/pkg/errutil"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// serveFlags registers the flags the way the serve command does: string
// flags default to empty so the built-in defaults stay authoritative.
func serveFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("listen-addr", "", "")
	flags.String("metrics-addr", "", "")
	flags.String("database-url", "", "")
	flags.String("redis-url", "", "")
	flags.String("frontend-url", "", "")
	flags.String("log-format", "", "")
	flags.Bool("auto-migrate", true, "")
	return flags
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, ":4000", cfg.ListenAddr)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "qid", cfg.Cookie.Name)
	assert.Equal(t, 10*365*24*time.Hour, cfg.Cookie.MaxAge)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoad(t *testing.T) {
	t.Run("no file and no flags yields defaults", func(t *testing.T) {
		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, ":4000", cfg.ListenAddr)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.Load("/nonexistent/config.yaml", nil)
		require.Error(t, err)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
listen_addr: ":8080"
log_format: text
cookie:
  name: sid
  secure: true
email:
  enabled: true
  from_email: noreply@example.com
`)
		cfg, err := config.Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "sid", cfg.Cookie.Name)
		assert.True(t, cfg.Cookie.Secure)
		assert.True(t, cfg.Email.Enabled)
		assert.Equal(t, "noreply@example.com", cfg.Email.FromEmail)

		// Keys absent from the file keep their defaults.
		assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	})

	t.Run("set flags override file values", func(t *testing.T) {
		path := writeConfigFile(t, `listen_addr: ":8080"`)

		flags := serveFlags(t)
		require.NoError(t, flags.Parse([]string{"--listen-addr", ":9999"}))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.ListenAddr)

		// Unset flags do not clobber file values or defaults.
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("unset flags keep defaults and file values", func(t *testing.T) {
		path := writeConfigFile(t, `frontend_url: https://forum.example.com`)

		flags := serveFlags(t)
		require.NoError(t, flags.Parse(nil))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "https://forum.example.com", cfg.FrontendURL)
		assert.Equal(t, ":4000", cfg.ListenAddr)
		assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "qid", cfg.Cookie.Name)
	})

	t.Run("env-only startup passes validation", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env-host/app")
		t.Setenv("REDIS_URL", "redis://env-host:6379")

		flags := serveFlags(t)
		require.NoError(t, flags.Parse(nil))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, ":4000", cfg.ListenAddr)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment fills in connection URLs", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env-host/app")
		t.Setenv("REDIS_URL", "redis://env-host:6379")

		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres://env-host/app", cfg.DatabaseURL)
		assert.Equal(t, "redis://env-host:6379", cfg.RedisURL)
	})

	t.Run("explicit value beats environment", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env-host/app")
		path := writeConfigFile(t, `database_url: postgres://file-host/app`)

		cfg, err := config.Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres://file-host/app", cfg.DatabaseURL)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.DatabaseURL = "postgres://localhost/app"
		cfg.RedisURL = "redis://localhost:6379"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("database URL required", func(t *testing.T) {
		cfg := valid()
		cfg.DatabaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		assert.Contains(t, err.Error(), "database URL")
	})

	t.Run("redis URL required", func(t *testing.T) {
		cfg := valid()
		cfg.RedisURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis URL")
	})

	t.Run("log format restricted", func(t *testing.T) {
		cfg := valid()
		cfg.LogFormat = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_format")
	})

	t.Run("enabled email needs a from address", func(t *testing.T) {
		cfg := valid()
		cfg.Email.Enabled = true
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "from_email")
	})
}
