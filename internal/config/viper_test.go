package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears overrides and points HOME at an empty directory so no
// developer config leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"CARD_ADVISOR_LOG_LEVEL",
		"CARD_ADVISOR_LOG_FORMAT",
		"CARD_ADVISOR_CLASSIFIER_CACHE_SIZE",
		"CARD_ADVISOR_CLASSIFIER_KEYWORD_THRESHOLD",
		"CARD_ADVISOR_CYCLE_DUE_SOON_DAYS",
		"CARD_ADVISOR_DATA_CARDS_FILE",
		"CARD_ADVISOR_DATA_CSV_DELIMITER",
		"CARD_ADVISOR_AI_ENABLED",
		"CARD_ADVISOR_AI_MODEL",
		"CARD_ADVISOR_AI_API_KEY",
		"GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, 1000, config.Classifier.CacheSize)
	assert.Equal(t, 0.9, config.Classifier.CodeThreshold)
	assert.Equal(t, 0.7, config.Classifier.KeywordThreshold)
	assert.Equal(t, 0.5, config.Classifier.HintMaxConfidence)
	assert.Equal(t, 7, config.Cycle.DueSoonDays)
	assert.Equal(t, 21, config.Cycle.DefaultGraceDays)
	assert.Equal(t, "cards.yaml", config.Data.CardsFile)
	assert.Equal(t, ',', config.Delimiter())
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-flash", config.AI.Model)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"CARD_ADVISOR_LOG_LEVEL":                    "debug",
		"CARD_ADVISOR_LOG_FORMAT":                   "json",
		"CARD_ADVISOR_CLASSIFIER_CACHE_SIZE":        "50",
		"CARD_ADVISOR_CLASSIFIER_KEYWORD_THRESHOLD": "0.75",
		"CARD_ADVISOR_CYCLE_DUE_SOON_DAYS":          "3",
		"CARD_ADVISOR_DATA_CSV_DELIMITER":           ";",
		"CARD_ADVISOR_AI_ENABLED":                   "true",
		"CARD_ADVISOR_AI_MODEL":                     "gemini-1.5-pro",
		"GEMINI_API_KEY":                            "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 50, config.Classifier.CacheSize)
	assert.Equal(t, 0.75, config.Classifier.KeywordThreshold)
	assert.Equal(t, 3, config.Cycle.DueSoonDays)
	assert.Equal(t, ';', config.Delimiter())
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
log:
  level: warn
classifier:
  cache_size: 250
cycle:
  default_grace_days: 25
data:
  cards_file: /srv/cards.csv
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, 250, config.Classifier.CacheSize)
	assert.Equal(t, 25, config.Cycle.DefaultGraceDays)
	assert.Equal(t, "/srv/cards.csv", config.Data.CardsFile)
	assert.Equal(t, 0.9, config.Classifier.CodeThreshold, "unset keys keep defaults")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("CARD_ADVISOR_LOG_LEVEL", "error")

	config, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad log level", "log:\n  level: loud\n", "invalid log level"},
		{"bad log format", "log:\n  format: xml\n", "invalid log format"},
		{"zero cache", "classifier:\n  cache_size: 0\n", "cache_size"},
		{"threshold above one", "classifier:\n  code_threshold: 1.5\n", "code_threshold"},
		{"hint not below keyword", "classifier:\n  hint_max_confidence: 0.8\n", "hint_max_confidence"},
		{"grace too long", "cycle:\n  default_grace_days: 120\n", "default_grace_days"},
		{"long delimiter", "data:\n  csv_delimiter: \"::\"\n", "delimiter"},
		{"ai without key", "ai:\n  enabled: true\n", "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CARD_ADVISOR_TEST_VALUE=from-dotenv\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { _ = os.Unsetenv("CARD_ADVISOR_TEST_VALUE") })

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "from-dotenv", GetEnv("CARD_ADVISOR_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CARD_ADVISOR_UNSET_VALUE", "fallback"))
}

func TestConfigureLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"debug text", "debug", "text", logrus.DebugLevel, false},
		{"warn json", "WARN", "json", logrus.WarnLevel, true},
		{"invalid level falls back", "loud", "text", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Log.Level = tt.level
			cfg.Log.Format = tt.format

			logger := ConfigureLogging(cfg)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
