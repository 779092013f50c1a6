package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "DATASET_PATH", "DATASET_URL", "FETCH_MAX_ELAPSED", "WARM_TIMEOUT", "WARM_WORKERS", "CACHE_SIZE"} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "movement-range.txt", cfg.DatasetPath)
	assert.Empty(t, cfg.DatasetURL)
	assert.Equal(t, 30*time.Second, cfg.FetchMaxElapsed)
	assert.Equal(t, 20*time.Second, cfg.WarmTimeout)
	assert.Equal(t, 4, cfg.WarmWorkers)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WARM_TIMEOUT", "5s")
	t.Setenv("CACHE_SIZE", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.WarmTimeout)
	assert.Equal(t, 0, cfg.CacheSize)
}

func TestFromEnvInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("WARM_TIMEOUT", "soon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "WARM_TIMEOUT")

	clearEnv(t)
	t.Setenv("WARM_WORKERS", "-1")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "WARM_WORKERS")
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATASET_PATH")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DATASET_PATH=/data/movement.tsv\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/movement.tsv", cfg.DatasetPath)
}
