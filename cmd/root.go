package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/tabdash/tabdash-cli/internal/config"
)

var (
	// Global flags (wired to config/viper in loadConfig)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tabdash",
	Short: "TabDash CLI: turn tabular record exports into a filterable dashboard",
	Long:  `TabDash ingests record exports (CSV, TSV, XLSX, remote sheets), resolves messy column headers against a canonical field set, normalizes dates, clock times, and currency values, and aggregates the result into KPI and chart summaries with drill-down filtering.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	if debug {
		cfg.LogLevel = "debug"
	}
	if err := cfgpkg.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to init logger: %v\n", err)
	}
}

// effectiveConfig returns the loaded config, falling back to defaults when
// loadConfig could not produce one.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		TopN:                  10,
		TurnaroundDays:        7,
		ConversionDenominator: "trial",
		PreviewRows:           500,
		LogLevel:              "info",
		LogFormat:             "console",
	}
}
