package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/config"
)

type envConfig struct {
	Name    string `env:"TEST_CFG_NAME" envDefault:"default_value"`
	Workers int    `env:"TEST_CFG_WORKERS" envDefault:"5"`
}

type requiredConfig struct {
	Required string `env:"TEST_CFG_REQUIRED,required"`
}

type fileConfig struct {
	Vendor string            `json:"vendor" yaml:"vendor"`
	Keys   map[string]string `json:"keys" yaml:"keys"`
}

func TestLoad(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		var cfg envConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "default_value", cfg.Name)
		assert.Equal(t, 5, cfg.Workers)
	})

	t.Run("reads environment on every call", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "first")
		var a envConfig
		require.NoError(t, config.Load(&a))

		t.Setenv("TEST_CFG_NAME", "second")
		var b envConfig
		require.NoError(t, config.Load(&b))

		assert.Equal(t, "first", a.Name)
		assert.Equal(t, "second", b.Name)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[envConfig](nil), config.ErrNilPointer)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var cfg fileConfig
		path := write("vendors.json", `{"vendor":"smtp","keys":{"host":"mail.local"}}`)
		require.NoError(t, config.LoadFile(path, &cfg))
		assert.Equal(t, "smtp", cfg.Vendor)
		assert.Equal(t, "mail.local", cfg.Keys["host"])
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var cfg fileConfig
		path := write("vendors.yaml", "vendor: resend\nkeys:\n  api_key: re_123\n")
		require.NoError(t, config.LoadFile(path, &cfg))
		assert.Equal(t, "resend", cfg.Vendor)
		assert.Equal(t, "re_123", cfg.Keys["api_key"])
	})

	t.Run("json rejects unknown fields", func(t *testing.T) {
		t.Parallel()
		var cfg fileConfig
		path := write("unknown.json", `{"vendor":"smtp","extra":true}`)
		assert.ErrorIs(t, config.LoadFile(path, &cfg), config.ErrParsingConfig)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		var cfg fileConfig
		path := write("vendors.toml", "vendor = 'x'")
		assert.ErrorIs(t, config.LoadFile(path, &cfg), config.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		var cfg fileConfig
		assert.ErrorIs(t, config.LoadFile(filepath.Join(dir, "nope.json"), &cfg), config.ErrReadingFile)
	})
}
