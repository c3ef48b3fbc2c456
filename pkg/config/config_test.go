package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("forecast:\n  api_root: http://forecast:8000\n"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "http://forecast:8000", c.Forecast.APIRoot)
	assert.Equal(t, time.Duration(0), c.Forecast.Timeout)
	assert.False(t, c.Forecast.DropStale)
	assert.Equal(t, "none", c.Journal.Backend)
	assert.Equal(t, "memory", c.RateLimit.Backend)
	assert.Equal(t, 256, c.Journal.Buffer)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"relative api root":  "forecast:\n  api_root: /api\n",
		"negative timeout":   "forecast:\n  timeout: -1s\n",
		"unknown limiter":    "ratelimit:\n  backend: etcd\n",
		"kafka no brokers":   "journal:\n  backend: kafka\n",
		"clickhouse no host": "journal:\n  backend: clickhouse\n",
		"unknown journal":    "journal:\n  backend: s3\n",
		"broken yaml":        "forecast: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverridesAPIRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast:\n  api_root: http://localhost:8000\n"), 0o600))

	t.Setenv("FORECAST_API_ROOT", "https://forecast.example.com")
	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forecast.example.com", c.Forecast.APIRoot)

	t.Setenv("FORECAST_API_ROOT", "not a url")
	_, err = LoadWithEnv(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
