package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statloom/censuskit/internal/census"
	"github.com/statloom/censuskit/internal/loader"
	"github.com/statloom/censuskit/internal/query"
	"github.com/statloom/censuskit/internal/render"
)

var (
	profAge  int
	profSA2A string
	profSA2B string
)

var profileCmd = &cobra.Command{
	Use:   "profile <areas.csv> <populations.csv>",
	Short: "Profile an age group: SA3 statistics, per-state maxima and SA2 correlation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, code := range []string{profSA2A, profSA2B} {
			if !validSA2Code(code) {
				return fmt.Errorf("invalid SA2 code %q: must be exactly 9 digits", code)
			}
		}
		idx, err := buildIndex(args[0], args[1])
		if err != nil {
			return err
		}
		eng := query.NewEngine(idx, query.Options{
			PopulationThreshold: cfg.PopulationThreshold,
			MinSimilarityPeers:  cfg.MinSimilarityPeers,
		})
		res, err := eng.AnalyzeProfile(query.ProfileRequest{
			TargetAge: profAge,
			SA2CodeA:  profSA2A,
			SA2CodeB:  profSA2B,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.New(cfg.RoundDecimals).Profile(res))
		return nil
	},
}

func init() {
	profileCmd.Flags().IntVar(&profAge, "age", 0, "target age to profile")
	profileCmd.Flags().StringVar(&profSA2A, "sa2-a", "", "first SA2 code (9 digits)")
	profileCmd.Flags().StringVar(&profSA2B, "sa2-b", "", "second SA2 code (9 digits)")
	_ = profileCmd.MarkFlagRequired("sa2-a")
	_ = profileCmd.MarkFlagRequired("sa2-b")
	rootCmd.AddCommand(profileCmd)
}

// validSA2Code enforces the published 9-digit SA2 code format before
// the engine is invoked.
func validSA2Code(code string) bool {
	if len(code) != 9 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildIndex loads both tables and joins them; shared by profile and
// report.
func buildIndex(areasPath, popsPath string) (*census.Index, error) {
	lopt := loader.Options{Delimiter: tableDelimiter(), Logger: logger}
	areas, err := loader.LoadAreas(areasPath, lopt)
	if err != nil {
		return nil, err
	}
	pops, bands, err := loader.LoadPopulations(popsPath, lopt)
	if err != nil {
		return nil, err
	}
	return census.BuildIndex(areas, pops, bands, census.IndexOptions{
		Strict: cfg.StrictRegions,
		Logger: logger,
	})
}
