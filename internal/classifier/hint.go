package classifier

import (
	"fmt"
	"math"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/models"
)

// Hint is a classification produced outside the core, typically by a language
// model the caller consulted. It is only used when every local tier fails.
type Hint struct {
	CategoryID string
	Confidence float64
	Reasoning  string
}

// HintStrategy accepts an external hint naming a known category, capping its
// confidence below any local tier.
type HintStrategy struct {
	catalog       *catalog.Catalog
	maxConfidence float64
}

// NewHintStrategy creates a HintStrategy with the given confidence cap.
func NewHintStrategy(cat *catalog.Catalog, maxConfidence float64) *HintStrategy {
	return &HintStrategy{catalog: cat, maxConfidence: maxConfidence}
}

// Name returns the name of this strategy for logging and debugging.
func (s *HintStrategy) Name() string {
	return "ExternalHint"
}

// Classify validates the hint against the catalog. A hint naming a
// subcategory resolves to its parent.
func (s *HintStrategy) Classify(in Input) (models.ClassificationResult, bool) {
	h := in.Hint
	if h == nil || math.IsNaN(h.Confidence) || h.Confidence <= 0 {
		return models.ClassificationResult{}, false
	}
	id := catalog.Normalize(h.CategoryID)
	if !s.catalog.IsKnown(id) {
		return models.ClassificationResult{}, false
	}

	result := models.ClassificationResult{
		Confidence: math.Min(h.Confidence, s.maxConfidence),
		Source:     models.SourceExternal,
	}
	if parent, ok := s.catalog.ParentOf(id); ok {
		result.CategoryID = parent
		result.SubcategoryID = id
	} else {
		result.CategoryID = id
	}

	result.Reasoning = fmt.Sprintf("external classifier suggested %s", result.CategoryID)
	if h.Reasoning != "" {
		result.Reasoning += ": " + h.Reasoning
	}
	return result, true
}
