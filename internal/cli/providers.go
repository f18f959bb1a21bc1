package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robocompute/robocompute-go/client"
)

var (
	flagSearchGPU      int
	flagSearchCPU      int
	flagSearchMaxPrice string
	flagSearchLocation string
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Search compute providers",
}

func init() {
	providersSearchCmd.Flags().IntVar(&flagSearchGPU, "gpu-memory-min", 0, "minimum GPU memory (GB)")
	providersSearchCmd.Flags().IntVar(&flagSearchCPU, "cpu-cores-min", 0, "minimum CPU cores")
	providersSearchCmd.Flags().StringVar(&flagSearchMaxPrice, "max-price", "", "maximum price per hour (USDC)")
	providersSearchCmd.Flags().StringVar(&flagSearchLocation, "location", "", "provider location")

	providersCmd.AddCommand(providersSearchCmd)
	rootCmd.AddCommand(providersCmd)
}

var providersSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search providers by capability and price",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		list, err := c.Providers.Search(cmd.Context(), client.SearchProvidersOptions{
			GPUMemoryMin: flagSearchGPU,
			CPUCoresMin:  flagSearchCPU,
			MaxPrice:     flagSearchMaxPrice,
			Location:     flagSearchLocation,
		})
		if err != nil {
			return renderError(err)
		}

		if len(list.Providers) == 0 {
			fmt.Println("No providers matched.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tPRICE/H\tRATING")
		for _, p := range list.Providers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\n",
				p.ProviderID, p.Name, p.Location, p.PricePerHour, p.Rating)
		}
		return w.Flush()
	},
}
