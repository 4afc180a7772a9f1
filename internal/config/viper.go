// Package config provides Viper-based hierarchical configuration management.
// Values resolve in order: defaults, config.yaml, then CARD_ADVISOR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CARD_ADVISOR"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Classifier struct {
		CacheSize         int     `mapstructure:"cache_size" yaml:"cache_size"`
		CodeThreshold     float64 `mapstructure:"code_threshold" yaml:"code_threshold"`
		KeywordThreshold  float64 `mapstructure:"keyword_threshold" yaml:"keyword_threshold"`
		HintMaxConfidence float64 `mapstructure:"hint_max_confidence" yaml:"hint_max_confidence"`
	} `mapstructure:"classifier" yaml:"classifier"`

	Cycle struct {
		DueSoonDays      int `mapstructure:"due_soon_days" yaml:"due_soon_days"`
		DefaultGraceDays int `mapstructure:"default_grace_days" yaml:"default_grace_days"`
	} `mapstructure:"cycle" yaml:"cycle"`

	Data struct {
		CatalogFile  string `mapstructure:"catalog_file" yaml:"catalog_file"`
		CardsFile    string `mapstructure:"cards_file" yaml:"cards_file"`
		CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	} `mapstructure:"data" yaml:"data"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig loads configuration from the standard locations.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load loads configuration, reading configFile instead of searching the
// standard locations when it is set.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.card-advisor")
		v.AddConfigPath(".card-advisor")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key also comes from the conventional unprefixed variable
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("classifier.cache_size", 1000)
	v.SetDefault("classifier.code_threshold", 0.9)
	v.SetDefault("classifier.keyword_threshold", 0.7)
	v.SetDefault("classifier.hint_max_confidence", 0.5)

	v.SetDefault("cycle.due_soon_days", 7)
	v.SetDefault("cycle.default_grace_days", 21)

	v.SetDefault("data.catalog_file", "")
	v.SetDefault("data.cards_file", "cards.yaml")
	v.SetDefault("data.csv_delimiter", ",")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Classifier.CacheSize < 1 {
		return fmt.Errorf("classifier.cache_size must be positive, got: %d", config.Classifier.CacheSize)
	}

	thresholds := map[string]float64{
		"classifier.code_threshold":      config.Classifier.CodeThreshold,
		"classifier.keyword_threshold":   config.Classifier.KeywordThreshold,
		"classifier.hint_max_confidence": config.Classifier.HintMaxConfidence,
	}
	for key, value := range thresholds {
		if value <= 0.0 || value > 1.0 {
			return fmt.Errorf("%s must be in (0.0, 1.0], got: %f", key, value)
		}
	}
	if config.Classifier.HintMaxConfidence >= config.Classifier.KeywordThreshold {
		return fmt.Errorf("classifier.hint_max_confidence (%f) must stay below classifier.keyword_threshold (%f)",
			config.Classifier.HintMaxConfidence, config.Classifier.KeywordThreshold)
	}

	if config.Cycle.DueSoonDays < 0 || config.Cycle.DueSoonDays > 31 {
		return fmt.Errorf("cycle.due_soon_days must be between 0 and 31, got: %d", config.Cycle.DueSoonDays)
	}
	if config.Cycle.DefaultGraceDays < 1 || config.Cycle.DefaultGraceDays > 90 {
		return fmt.Errorf("cycle.default_grace_days must be between 1 and 90, got: %d", config.Cycle.DefaultGraceDays)
	}

	if len([]rune(config.Data.CSVDelimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.Data.CSVDelimiter)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if r := []rune(c.Data.CSVDelimiter); len(r) > 0 {
		return r[0]
	}
	return ','
}

// ConfigureLogging creates a logrus logger with the configured level and format.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
