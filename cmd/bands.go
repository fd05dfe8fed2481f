package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statloom/censuskit/internal/census"
)

var bandsAge int

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Show the standard age band table, or resolve an age to its band",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table := census.DefaultBands()
		if cmd.Flags().Changed("age") {
			band, err := census.ResolveBand(bandsAge, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Age %d is in band %s\n", bandsAge, band.Label())
			return nil
		}
		for _, b := range table {
			fmt.Fprintln(cmd.OutOrStdout(), b.Label())
		}
		return nil
	},
}

func init() {
	bandsCmd.Flags().IntVar(&bandsAge, "age", 0, "resolve this age instead of listing the table")
	rootCmd.AddCommand(bandsCmd)
}
