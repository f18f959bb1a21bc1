package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config is the on-disk roboctl configuration.
type Config struct {
	APIKey        string `toml:"api_key"`
	WalletAddress string `toml:"wallet_address"`
	RPCEndpoint   string `toml:"rpc_endpoint"`
	BaseURL       string `toml:"base_url"`
	LogLevel      string `toml:"log_level"`
}

func (c Config) logLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

// defaultConfigPath is $HOME/.roboctl.toml.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roboctl.toml")
}

// loadConfig reads a TOML config file. A missing default file is not an
// error; a missing explicit --config file is.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config

	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig merges, in increasing precedence: config file, environment,
// flags.
func resolveConfig() (Config, error) {
	path := flagConfig
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return Config{}, err
	}

	if v := os.Getenv("ROBOCOMPUTE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("ROBOCOMPUTE_WALLET"); v != "" {
		cfg.WalletAddress = v
	}

	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagWallet != "" {
		cfg.WalletAddress = flagWallet
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}

	if cfg.APIKey == "" {
		return Config{}, errors.New("no API key: set api_key in config, ROBOCOMPUTE_API_KEY, or --api-key")
	}
	if cfg.WalletAddress == "" {
		return Config{}, errors.New("no wallet address: set wallet_address in config, ROBOCOMPUTE_WALLET, or --wallet")
	}
	return cfg, nil
}
