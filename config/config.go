package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Matching   MatchingConfig
	Comparison ComparisonConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig holds catalog database configuration
type StorageConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// MatchingConfig holds similarity-scorer tuning knobs.
// These feed usecase.ScoringWeights: they are tunable configuration,
// not algorithm structure.
type MatchingConfig struct {
	ExactScore         int     `mapstructure:"exact_score"`
	ReorderedScore     int     `mapstructure:"reordered_score"`
	OverlapBase        float64 `mapstructure:"overlap_base"`
	AllTokensBonus     float64 `mapstructure:"all_tokens_bonus"`
	DescriptiveBonus   float64 `mapstructure:"descriptive_bonus"`
	ExtraWordPenalty   float64 `mapstructure:"extra_word_penalty"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// ComparisonConfig holds cross-supplier price comparison knobs
type ComparisonConfig struct {
	MinSavingsPct    float64 `mapstructure:"min_savings_pct"`
	MaxAgeDays       int     `mapstructure:"max_age_days"`
	MaxBetterDeals   int     `mapstructure:"max_better_deals"`
	SuspiciousLowPct float64 `mapstructure:"suspicious_low_pct"`
	OverpricedPct    float64 `mapstructure:"overpriced_pct"`
	AverageBandPct   float64 `mapstructure:"average_band_pct"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Storage defaults
	v.SetDefault("storage.sqlite_path", "pricelens.db")

	// Matching defaults, tuned against the catalog regression scenarios
	v.SetDefault("matching.exact_score", 100)
	v.SetDefault("matching.reordered_score", 95)
	v.SetDefault("matching.overlap_base", 80.0)
	v.SetDefault("matching.all_tokens_bonus", 0.30)
	v.SetDefault("matching.descriptive_bonus", 0.10)
	v.SetDefault("matching.extra_word_penalty", 0.05)
	v.SetDefault("matching.enable_debug_logging", false)

	// Comparison defaults
	v.SetDefault("comparison.min_savings_pct", 5.0)
	v.SetDefault("comparison.max_age_days", 30)
	v.SetDefault("comparison.max_better_deals", 3)
	v.SetDefault("comparison.suspicious_low_pct", 0.70)
	v.SetDefault("comparison.overpriced_pct", 1.15)
	v.SetDefault("comparison.average_band_pct", 0.05)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required (set PRICELENS_STORAGE_SQLITE_PATH)")
	}

	if config.Comparison.MaxAgeDays <= 0 {
		return fmt.Errorf("comparison max_age_days must be positive, got: %d", config.Comparison.MaxAgeDays)
	}

	if config.Comparison.MinSavingsPct < 0 {
		return fmt.Errorf("comparison min_savings_pct must not be negative, got: %.2f", config.Comparison.MinSavingsPct)
	}

	if config.Comparison.MaxBetterDeals <= 0 {
		return fmt.Errorf("comparison max_better_deals must be positive, got: %d", config.Comparison.MaxBetterDeals)
	}

	if config.Matching.ExactScore <= config.Matching.ReorderedScore {
		return fmt.Errorf("matching exact_score (%d) must exceed reordered_score (%d)",
			config.Matching.ExactScore, config.Matching.ReorderedScore)
	}

	return nil
}
