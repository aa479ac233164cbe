package config

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dashboard tuning.
	TopN                  int    `mapstructure:"top_n" yaml:"top_n"`
	TurnaroundDays        int    `mapstructure:"turnaround_days" yaml:"turnaround_days"`
	ConversionDenominator string `mapstructure:"conversion_denominator" yaml:"conversion_denominator"`
	PreviewRows           int    `mapstructure:"preview_rows" yaml:"preview_rows"`

	// Schema synonym overrides: canonical field name → extra header
	// spellings, consulted before the built-in synonym table.
	Synonyms map[string][]string `mapstructure:"synonyms" yaml:"synonyms,omitempty"`

	// Remote sheet source.
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	RemoteKey string `mapstructure:"remote_key" yaml:"remote_key"`

	// Logging.
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.tabdash/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return eris.Wrap(err, "config: resolve home dir")
		}
		dir := filepath.Join(home, ".tabdash")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "config: mkdir config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "config: marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "config: write file")
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABDASH")
	v.AutomaticEnv()

	// Defaults mirror the source dashboards.
	v.SetDefault("top_n", 10)
	v.SetDefault("turnaround_days", 7)
	v.SetDefault("conversion_denominator", "trial")
	v.SetDefault("preview_rows", 500)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, eris.Wrap(err, "config: resolve home dir")
		}
		dir := filepath.Join(home, ".tabdash")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if c.ConversionDenominator != "trial" && c.ConversionDenominator != "total" {
		return nil, eris.Errorf("config: invalid conversion_denominator %q (use trial or total)", c.ConversionDenominator)
	}
	return &c, nil
}

// InitLogger installs the global zap logger per the log settings.
func InitLogger(c *Global) error {
	var zapCfg zap.Config
	if c.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
