// Package container provides dependency injection for the card-advisor
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/card-advisor/internal/cardstore"
	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/classifier"
	"fjacquet/card-advisor/internal/config"
	"fjacquet/card-advisor/internal/cycle"
	"fjacquet/card-advisor/internal/hint"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/pkg/advisor"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	catalog   *catalog.Catalog
	cardStore *cardstore.CardStore
	hints     hint.Provider
	advisor   *advisor.Advisor
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	cat, err := loadCatalog(cfg.Data.CatalogFile)
	if err != nil {
		return nil, err
	}

	// Create hint provider (if enabled)
	var hints hint.Provider = hint.NoopProvider{}
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
		provider, err := hint.NewGeminiProvider(context.Background(), cfg.AI.APIKey, cfg.AI.Model, timeout, cat, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create hint provider: %w", err)
		}
		hints = provider
		logger.Info("AI classification hints enabled")
	} else {
		logger.Info("AI classification hints disabled")
	}

	adv, err := advisor.New(advisor.Options{
		Catalog: cat,
		Classifier: classifier.Options{
			CacheSize:         cfg.Classifier.CacheSize,
			CodeThreshold:     cfg.Classifier.CodeThreshold,
			KeywordThreshold:  cfg.Classifier.KeywordThreshold,
			HintMaxConfidence: cfg.Classifier.HintMaxConfidence,
		},
		Cycle: cycle.Options{
			DueSoonDays:      cfg.Cycle.DueSoonDays,
			DefaultGraceDays: cfg.Cycle.DefaultGraceDays,
		},
		Hints:  hints,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "categories_count", Value: cat.Len()},
		logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled})

	return &Container{
		logger:    logger,
		config:    cfg,
		catalog:   cat,
		cardStore: cardstore.NewCardStore(cfg.Delimiter(), logger),
		hints:     hints,
		advisor:   adv,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCatalog returns the category catalog.
func (c *Container) GetCatalog() *catalog.Catalog {
	return c.catalog
}

// GetCardStore returns the file-backed card source.
func (c *Container) GetCardStore() *cardstore.CardStore {
	return c.cardStore
}

// GetHintProvider returns the classification hint provider. It is a
// NoopProvider when AI hints are disabled.
func (c *Container) GetHintProvider() hint.Provider {
	return c.hints
}

// GetAdvisor returns the wired recommendation facade.
func (c *Container) GetAdvisor() *advisor.Advisor {
	return c.advisor
}

// Close releases the hint provider's client, if any.
func (c *Container) Close() error {
	if closer, ok := c.hints.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close hint provider: %w", err)
		}
	}
	c.logger.Info("Container closed")
	return nil
}
