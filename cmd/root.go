package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/statloom/censuskit/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and root logger
	cfg    *cfgpkg.Global
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "censuskit",
	Short: "censuskit: age-band statistics over ABS SA2/SA3 census tables",
	Long: `censuskit computes descriptive and comparative statistics over the
two-table ABS demographic dataset: an areas table mapping SA2 regions
into their SA3 and state, and a wide-form populations table of counts
per age band. It answers age-band lookups, regional mean and standard
deviation, cross-region correlation and similarity, and
maximum-population region discovery.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initLogger, loadConfig)
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.censuskit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initLogger() {
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to init logger: %v\n", err)
		logger = zap.NewNop()
	}
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = &cfgpkg.Global{
			PopulationThreshold: 150000,
			MinSimilarityPeers:  15,
			RoundDecimals:       4,
		}
		return
	}
	cfg = c
}

// tableDelimiter maps the configured delimiter string onto a rune for
// the loader. Unknown values fall back to comma.
func tableDelimiter() rune {
	switch cfg.Delimiter {
	case "", ",":
		return ','
	case ";":
		return ';'
	case "\t", "tab":
		return '\t'
	default:
		fmt.Fprintf(os.Stderr, "⚠ Warning: unsupported delimiter %q, using comma\n", cfg.Delimiter)
		return ','
	}
}
