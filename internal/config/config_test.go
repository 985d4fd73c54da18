package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые могли прийти из окружения CI.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOARD_URL", "LOGIN_URL", "COIN_URL_TEMPLATE", "WALLET_FILE", "LOG_FILE", "LOG_LEVEL",
		"HEADLESS", "PROFILE_ROOT", "CHROME_BIN", "REQUIRE_AUTH", "SEEN_DB", "METRICS_ADDR",
		"POLL_INTERVAL", "BACKOFF_INTERVAL", "POST_RATE", "LISTING_TIMEOUT", "ELEMENT_TIMEOUT",
		"SUBMIT_TIMEOUT", "LOGIN_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://pump.fun/board", cfg.BoardURL)
	assert.Equal(t, "https://pump.fun/coin/{id}", cfg.CoinURLTemplate)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.BackoffInterval)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Submit)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.RequireAuth)
	assert.Empty(t, cfg.SeenDB)
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "bot.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"POLL_INTERVAL=3\nBACKOFF_INTERVAL=2m\nREQUIRE_AUTH=true\nSEEN_DB=seen.db\nPOST_RATE=4\n",
	), 0o600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.BackoffInterval)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, "seen.db", cfg.SeenDB)
	assert.InDelta(t, 4.0, cfg.PostsPerMinute, 1e-9)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("HEADLESS", "maybe")
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEADLESS")
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestValidate_TemplateNeedsPlaceholder(t *testing.T) {
	cfg := Default()
	cfg.CoinURLTemplate = "https://pump.fun/coin/"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.BackoffInterval = 0
	require.Error(t, cfg.Validate())
}

// chdir меняет рабочий каталог на время теста (аналог testing.T.Chdir из Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
