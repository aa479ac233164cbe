package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/tabdash/tabdash-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TabDash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("turnaround_days: %d\n", cfg.TurnaroundDays)
		fmt.Printf("conversion_denominator: %s\n", cfg.ConversionDenominator)
		fmt.Printf("preview_rows: %d\n", cfg.PreviewRows)
		if cfg.RemoteURL != "" {
			fmt.Printf("remote_url: %s\n", cfg.RemoteURL)
		}
		if cfg.RemoteKey != "" {
			fmt.Printf("remote_key: %s\n", mask(cfg.RemoteKey))
		}
		for field, syns := range cfg.Synonyms {
			fmt.Printf("synonyms.%s: %v\n", field, syns)
		}
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_n: %v", val)
			}
			cfg.TopN = i
		case "turnaround_days":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for turnaround_days: %v", val)
			}
			cfg.TurnaroundDays = i
		case "conversion_denominator":
			switch val {
			case "trial", "total":
				cfg.ConversionDenominator = val
			default:
				return fmt.Errorf("invalid conversion_denominator: %s (use trial or total)", val)
			}
		case "preview_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for preview_rows: %v", val)
			}
			cfg.PreviewRows = i
		case "remote_url":
			cfg.RemoteURL = val
		case "remote_key":
			cfg.RemoteKey = val
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
