package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// PopulationThreshold is the minimum all-ages population for a
	// state or SA3 to be a candidate in the maxima queries.
	PopulationThreshold int `mapstructure:"population_threshold" yaml:"population_threshold"`
	// MinSimilarityPeers is the minimum member-SA2 count before an SA3
	// enters similarity pairing.
	MinSimilarityPeers int `mapstructure:"min_similarity_peers" yaml:"min_similarity_peers"`
	// RoundDecimals applies at the output boundary only.
	RoundDecimals int `mapstructure:"round_decimals" yaml:"round_decimals"`
	// StrictRegions fails the run on population rows referencing
	// regions absent from the areas table instead of skipping them.
	StrictRegions bool `mapstructure:"strict_regions" yaml:"strict_regions"`
	// Delimiter for the input tables ("," when empty).
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile
// is empty, it writes to ~/.censuskit/config.yaml, creating the
// directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".censuskit")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CENSUSKIT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("population_threshold", 150000)
	v.SetDefault("min_similarity_peers", 15)
	v.SetDefault("round_decimals", 4)
	v.SetDefault("strict_regions", false)
	v.SetDefault("delimiter", ",")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".censuskit")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.RoundDecimals < 0 {
		return nil, fmt.Errorf("round_decimals must be non-negative")
	}
	return &c, nil
}
