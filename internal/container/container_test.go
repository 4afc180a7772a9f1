package container

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/config"
	"fjacquet/card-advisor/internal/hint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Classifier.CacheSize = 100
	cfg.Classifier.CodeThreshold = 0.9
	cfg.Classifier.KeywordThreshold = 0.7
	cfg.Classifier.HintMaxConfidence = 0.5
	cfg.Cycle.DueSoonDays = 7
	cfg.Cycle.DefaultGraceDays = 21
	cfg.Data.CSVDelimiter = ","
	cfg.AI.Model = hint.DefaultModel
	cfg.AI.TimeoutSeconds = 5
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func() *config.Config
		expectError bool
		errorMsg    string
		expectAI    bool
	}{
		{
			name:        "nil config",
			config:      func() *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config without AI",
			config: baseConfig,
		},
		{
			name: "valid config with AI enabled",
			config: func() *config.Config {
				cfg := baseConfig()
				cfg.Log.Level = "debug"
				cfg.Log.Format = "json"
				cfg.AI.Enabled = true
				cfg.AI.APIKey = "test-api-key"
				return cfg
			},
			expectAI: true,
		},
		{
			name: "AI enabled without key falls back to no hints",
			config: func() *config.Config {
				cfg := baseConfig()
				cfg.AI.Enabled = true
				return cfg
			},
		},
		{
			name: "missing catalog file",
			config: func() *config.Config {
				cfg := baseConfig()
				cfg.Data.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
				return cfg
			},
			expectError: true,
			errorMsg:    "failed to load catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := NewContainer(tt.config())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, container)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, container)
			defer func() { assert.NoError(t, container.Close()) }()

			assert.NotNil(t, container.GetLogger())
			assert.NotNil(t, container.GetConfig())
			assert.NotNil(t, container.GetCardStore())
			assert.NotNil(t, container.GetAdvisor())
			assert.Equal(t, catalog.ExpectedCategoryCount, container.GetCatalog().Len())

			if tt.expectAI {
				assert.IsType(t, &hint.GeminiProvider{}, container.GetHintProvider())
			} else {
				assert.IsType(t, hint.NoopProvider{}, container.GetHintProvider())
			}
		})
	}
}

func TestContainer_CatalogFromFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "catalog", "catalog.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := baseConfig()
	cfg.Data.CatalogFile = path

	container, err := NewContainer(cfg)
	require.NoError(t, err)
	assert.True(t, container.GetCatalog().IsKnown("dining"))
	assert.Same(t, container.GetCatalog(), container.GetAdvisor().Catalog())
}

func TestContainer_WiresConfigIntoComponents(t *testing.T) {
	cfg := baseConfig()
	cfg.Classifier.CacheSize = 3
	cfg.Data.CSVDelimiter = ";"

	container, err := NewContainer(cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, container.GetAdvisor().Classifier().Stats().Capacity)

	cards, err := container.GetCardStore().LoadCSV(strings.NewReader("id;name\nplain;Plain Card\n"), "cards.csv")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Plain Card", cards[0].Name)
}

func TestContainer_Close(t *testing.T) {
	container, err := NewContainer(baseConfig())
	require.NoError(t, err)

	assert.NoError(t, container.Close())
}
