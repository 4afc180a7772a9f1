// Package classifier resolves free-text merchant names, optionally with a
// numeric merchant code, to catalog categories. Resolution is tiered:
//  1. A bounded least-recently-used cache of earlier results
//  2. The numeric code, when supplied
//  3. Keyword scoring against the catalog
//  4. An external hint supplied by the caller
//  5. No match
package classifier

import (
	"sync/atomic"
	"time"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/codemap"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Defaults for Options fields left at zero.
const (
	DefaultCacheSize         = 1000
	DefaultCodeThreshold     = 0.9
	DefaultKeywordThreshold  = 0.7
	DefaultHintMaxConfidence = 0.5
)

// Options tunes a Classifier.
type Options struct {
	CacheSize         int
	CodeThreshold     float64
	KeywordThreshold  float64
	HintMaxConfidence float64
}

// DefaultOptions returns the reference thresholds.
func DefaultOptions() Options {
	return Options{
		CacheSize:         DefaultCacheSize,
		CodeThreshold:     DefaultCodeThreshold,
		KeywordThreshold:  DefaultKeywordThreshold,
		HintMaxConfidence: DefaultHintMaxConfidence,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CacheSize <= 0 {
		o.CacheSize = d.CacheSize
	}
	if o.CodeThreshold <= 0 {
		o.CodeThreshold = d.CodeThreshold
	}
	if o.KeywordThreshold <= 0 {
		o.KeywordThreshold = d.KeywordThreshold
	}
	if o.HintMaxConfidence <= 0 {
		o.HintMaxConfidence = d.HintMaxConfidence
	}
	return o
}

// Request is one merchant in a batch.
type Request struct {
	Name string
	Code int
}

// Stats reports cache activity.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Size     int
	Capacity int
}

type cacheKey struct {
	name string
	code int
}

// Classifier is safe for concurrent use. Each instance owns its cache.
type Classifier struct {
	strategies []Strategy
	cache      *lru.Cache[cacheKey, models.ClassificationResult]
	capacity   int
	hits       atomic.Uint64
	misses     atomic.Uint64
	logger     logging.Logger
}

// NewClassifier builds a classifier over cat. A nil mapper is built from the
// catalog; a nil logger falls back to the process logger.
func NewClassifier(cat *catalog.Catalog, mapper *codemap.Mapper, opts Options, logger logging.Logger) (*Classifier, error) {
	opts = opts.withDefaults()
	if mapper == nil {
		mapper = codemap.New(cat)
	}

	cache, err := lru.New[cacheKey, models.ClassificationResult](opts.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		strategies: []Strategy{
			NewCodeStrategy(mapper, cat, opts.CodeThreshold),
			NewKeywordStrategy(cat, opts.KeywordThreshold),
			NewHintStrategy(cat, opts.HintMaxConfidence),
		},
		cache:    cache,
		capacity: opts.CacheSize,
		logger:   logging.OrDefault(logger),
	}, nil
}

// Classify resolves a merchant name and optional code (0 for none).
func (c *Classifier) Classify(name string, code int) models.ClassificationResult {
	return c.ClassifyWithHint(name, code, nil)
}

// ClassifyWithHint resolves a merchant, consulting hint only when the code and
// keyword tiers find nothing. Hint results are never cached.
func (c *Classifier) ClassifyWithHint(name string, code int, hint *Hint) models.ClassificationResult {
	start := time.Now()
	in := NewInput(name, code, hint)
	key := cacheKey{name: in.Normalized, code: in.Code}

	if cached, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		cached.Source = models.SourceCached
		c.logDecision(in, cached, "Cache", start)
		return cached
	}
	c.misses.Add(1)

	for _, strategy := range c.strategies {
		result, ok := strategy.Classify(in)
		if !ok {
			continue
		}
		if result.Source != models.SourceExternal {
			c.cache.Add(key, result)
		}
		c.logDecision(in, result, strategy.Name(), start)
		return result
	}

	result := models.ClassificationResult{
		Source:    models.SourceDefault,
		Reasoning: "no category matched the merchant name or code",
	}
	c.logDecision(in, result, "Default", start)
	return result
}

// ClassifyBatch classifies each request in order.
func (c *Classifier) ClassifyBatch(requests []Request) []models.ClassificationResult {
	results := make([]models.ClassificationResult, len(requests))
	for i, r := range requests {
		results[i] = c.Classify(r.Name, r.Code)
	}
	c.logger.WithField(logging.FieldCount, len(requests)).Debug("Classified merchant batch")
	return results
}

// ClearCache drops every cached result and resets the counters.
func (c *Classifier) ClearCache() {
	c.cache.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache counters.
func (c *Classifier) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Size:     c.cache.Len(),
		Capacity: c.capacity,
	}
}

func (c *Classifier) logDecision(in Input, result models.ClassificationResult, strategy string, start time.Time) {
	c.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: strategy},
		logging.Field{Key: logging.FieldMerchant, Value: in.Name},
		logging.Field{Key: logging.FieldCode, Value: in.Code},
		logging.Field{Key: logging.FieldCategory, Value: result.CategoryID},
		logging.Field{Key: logging.FieldSource, Value: result.Source},
		logging.Field{Key: logging.FieldConfidence, Value: result.Confidence},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	).Debug("Merchant classified")
}
