package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Export    ExportConfig    `mapstructure:"export"`
	AI        AIConfig        `mapstructure:"ai"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ReconcileConfig tunes record validation.
type ReconcileConfig struct {
	// ToleranceYen is the allowed gap between the permit total and the sum
	// of its components. Tax rounding can leave the documents a few yen
	// apart; zero demands exact reconciliation.
	ToleranceYen int64 `mapstructure:"tolerance_yen"`

	// CheckItemSubtotal enables the independent check that item amounts
	// sum to the subtotal.
	CheckItemSubtotal bool `mapstructure:"check_item_subtotal"`
}

// ExportConfig selects where generated ledger rows go.
type ExportConfig struct {
	Format string `mapstructure:"format"` // csv, xlsx or sqlite
	Path   string `mapstructure:"path"`
	Sheet  string `mapstructure:"sheet"` // xlsx only
}

// AIConfig holds the optional AI fallback parser configuration.
type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. An empty
// path loads defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("reconcile.tolerance_yen", 0)
	v.SetDefault("reconcile.check_item_subtotal", false)

	v.SetDefault("export.format", "csv")
	v.SetDefault("export.path", "ledger.csv")
	v.SetDefault("export.sheet", "仕訳")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("ai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("export.path", "LEDGER_EXPORT_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Export.Format {
	case "csv", "xlsx", "sqlite":
	default:
		return fmt.Errorf("export.format must be csv, xlsx or sqlite, got %q", c.Export.Format)
	}
	if c.Export.Path == "" {
		return fmt.Errorf("export.path is required")
	}
	if c.Reconcile.ToleranceYen < 0 {
		return fmt.Errorf("reconcile.tolerance_yen must not be negative")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai.enabled is true")
	}
	return nil
}
