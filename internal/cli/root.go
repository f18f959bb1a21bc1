// Package cli implements the roboctl command-line interface using Cobra.
// Each subcommand is a thin wrapper over the consumer client.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robocompute/robocompute-go/client"
)

var (
	flagConfig  string
	flagAPIKey  string
	flagWallet  string
	flagBaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "roboctl",
	Short: "RoboCompute marketplace client",
	Long: `roboctl talks to the RoboCompute compute marketplace:
submit and watch tasks, check wallet balance, search providers.

Credentials come from a TOML config file, environment variables
(ROBOCOMPUTE_API_KEY, ROBOCOMPUTE_WALLET), or flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $HOME/.roboctl.toml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key")
	rootCmd.PersistentFlags().StringVar(&flagWallet, "wallet", "", "wallet address")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL override")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newClient builds a consumer client from the resolved configuration.
func newClient() (*client.Client, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.logLevel()).
		With().Timestamp().Logger()

	return client.New(client.Config{
		APIKey:        cfg.APIKey,
		WalletAddress: cfg.WalletAddress,
		RPCEndpoint:   cfg.RPCEndpoint,
		BaseURL:       cfg.BaseURL,
		Logger:        &log,
	})
}
