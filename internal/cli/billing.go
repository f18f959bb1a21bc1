package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	flagHistoryStart string
	flagHistoryEnd   string
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Billing history",
}

func init() {
	billingHistoryCmd.Flags().StringVar(&flagHistoryStart, "start", "", "start date (YYYY-MM-DD)")
	billingHistoryCmd.Flags().StringVar(&flagHistoryEnd, "end", "", "end date (YYYY-MM-DD)")

	billingCmd.AddCommand(billingHistoryCmd)
	rootCmd.AddCommand(billingCmd)
}

var billingHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		history, err := c.Billing.History(cmd.Context(), flagHistoryStart, flagHistoryEnd)
		if err != nil {
			return renderError(err)
		}

		if len(history.Transactions) == 0 {
			fmt.Println("No transactions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tCURRENCY\tTASK\tTIME")
		for _, tx := range history.Transactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				tx.TransactionID, tx.Type, tx.Amount, tx.Currency, tx.TaskID, tx.Timestamp)
		}
		return w.Flush()
	},
}
