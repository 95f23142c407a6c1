package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/core/config"
)

type cachedConfig struct {
	Name    string        `env:"CONFIG_TEST_CACHED_NAME" envDefault:"first"`
	Timeout time.Duration `env:"CONFIG_TEST_CACHED_TIMEOUT" envDefault:"3s"`
}

type requiredConfig struct {
	Value string `env:"CONFIG_TEST_REQUIRED_VALUE,required"`
}

type listConfig struct {
	Paths []string `env:"CONFIG_TEST_PATHS" envSeparator:"," envDefault:"/login,/sign-up"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and caching", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Name)
		assert.Equal(t, 3*time.Second, first.Timeout)

		t.Setenv("CONFIG_TEST_CACHED_NAME", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Name, "cached value wins")
	})

	t.Run("required field missing", func(t *testing.T) {
		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("nil target", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[cachedConfig](nil), config.ErrNotPointer)
	})
}

func TestParse(t *testing.T) {
	t.Setenv("CONFIG_TEST_PATHS", "/a, /b")

	var cfg listConfig
	require.NoError(t, config.Parse(&cfg))
	assert.Equal(t, []string{"/a", " /b"}, cfg.Paths)
}
