package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet operations",
}

func init() {
	walletCmd.AddCommand(walletBalanceCmd)
	rootCmd.AddCommand(walletCmd)
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show wallet balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		balance, err := c.Wallet.Balance(cmd.Context())
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("USDC: %s\nUSDT: %s\nSOL:  %s\n", balance.USDC, balance.USDT, balance.SOL)
		return nil
	},
}
