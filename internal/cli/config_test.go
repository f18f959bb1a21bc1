package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roboctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func resetFlags(t *testing.T) {
	t.Helper()
	flagConfig, flagAPIKey, flagWallet, flagBaseURL = "", "", "", ""
	t.Cleanup(func() {
		flagConfig, flagAPIKey, flagWallet, flagBaseURL = "", "", "", ""
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
api_key = "file-key"
wallet_address = "file-wallet"
base_url = "https://staging.robocompute.xyz/api"
log_level = "debug"
`)

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "file-wallet", cfg.WalletAddress)
	assert.Equal(t, "https://staging.robocompute.xyz/api", cfg.BaseURL)
	assert.Equal(t, zerolog.DebugLevel, cfg.logLevel())
}

func TestLoadConfigMissingDefaultIsNotAnError(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), false)
	require.NoError(t, err)
	assert.Zero(t, cfg)
}

func TestLoadConfigMissingExplicitFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), true)
	assert.Error(t, err)
}

func TestResolveConfigPrecedence(t *testing.T) {
	resetFlags(t)
	flagConfig = writeConfig(t, `
api_key = "file-key"
wallet_address = "file-wallet"
`)

	// Environment beats file.
	t.Setenv("ROBOCOMPUTE_API_KEY", "env-key")
	t.Setenv("ROBOCOMPUTE_WALLET", "env-wallet")

	cfg, err := resolveConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-wallet", cfg.WalletAddress)

	// Flags beat environment.
	flagAPIKey = "flag-key"
	cfg, err = resolveConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, "env-wallet", cfg.WalletAddress)
}

func TestResolveConfigRequiresCredentials(t *testing.T) {
	resetFlags(t)
	flagConfig = writeConfig(t, `wallet_address = "w"`)
	t.Setenv("ROBOCOMPUTE_API_KEY", "")
	t.Setenv("ROBOCOMPUTE_WALLET", "")

	_, err := resolveConfig()
	assert.Error(t, err)
}

func TestLogLevelDefaultsToWarn(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, Config{}.logLevel())
	assert.Equal(t, zerolog.WarnLevel, Config{LogLevel: "bogus"}.logLevel())
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "info"}.logLevel())
}
