package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statloom/censuskit/internal/query"
	"github.com/statloom/censuskit/internal/render"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <areas.csv> <populations.csv>",
	Short: "Full report: age-group maxima, largest qualifying SA2s, most similar SA2 pairs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndex(args[0], args[1])
		if err != nil {
			return err
		}
		eng := query.NewEngine(idx, query.Options{
			PopulationThreshold: cfg.PopulationThreshold,
			MinSimilarityPeers:  cfg.MinSimilarityPeers,
		})
		res, err := eng.AnalyzeReport(cmd.Context())
		if err != nil {
			return err
		}
		r := render.New(cfg.RoundDecimals)
		switch reportFormat {
		case "", "markdown", "md":
			fmt.Fprintln(cmd.OutOrStdout(), r.Report(res))
		case "yaml", "yml":
			out, err := r.ReportYAML(res)
			if err != nil {
				return fmt.Errorf("render yaml: %w", err)
			}
			cmd.OutOrStdout().Write(out)
		default:
			return fmt.Errorf("unsupported --format: %s", reportFormat)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "markdown", "output format: markdown or yaml")
	rootCmd.AddCommand(reportCmd)
}
