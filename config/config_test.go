package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "WEATHER_API_KEY", cfg.Auth.Header)
	assert.Equal(t, "https://api.weather.yandex.ru/v2/forecast", cfg.Weather.URL)
	assert.Equal(t, 8*time.Second, cfg.Weather.Timeout)
	assert.Zero(t, cfg.Weather.CacheTTL)
	assert.Equal(t, "5555", cfg.Repositories.Postgres.Port)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("APP_WEATHER_APIKEY", "secret-key")
	t.Setenv("APP_REPOSITORIES_POSTGRES_HOST", "db.internal")
	t.Setenv("APP_WEATHER_TIMEOUT", "3s")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Weather.APIKey)
	assert.Equal(t, "db.internal", cfg.Repositories.Postgres.Host)
	assert.Equal(t, 3*time.Second, cfg.Weather.Timeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Server.HTTPPort = "8000"
		c.Auth.Header = "WEATHER_API_KEY"
		c.Weather.URL = "http://localhost"
		c.Weather.Timeout = time.Second
		return c
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("MissingPort", func(t *testing.T) {
		c := valid()
		c.Server.HTTPPort = ""
		assert.Error(t, c.Validate())
	})

	t.Run("MissingAuthHeader", func(t *testing.T) {
		c := valid()
		c.Auth.Header = ""
		assert.Error(t, c.Validate())
	})

	t.Run("ZeroWeatherTimeout", func(t *testing.T) {
		c := valid()
		c.Weather.Timeout = 0
		assert.Error(t, c.Validate())
	})

	t.Run("NegativeCacheTTL", func(t *testing.T) {
		c := valid()
		c.Weather.CacheTTL = -time.Second
		assert.Error(t, c.Validate())
	})
}
