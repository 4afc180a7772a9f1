package classifier

import (
	"fmt"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/codemap"
	"fjacquet/card-advisor/internal/models"
)

// CodeStrategy resolves merchants from their numeric classification code.
type CodeStrategy struct {
	mapper    *codemap.Mapper
	catalog   *catalog.Catalog
	threshold float64
}

// NewCodeStrategy creates a CodeStrategy accepting mapper results at or above
// threshold.
func NewCodeStrategy(mapper *codemap.Mapper, cat *catalog.Catalog, threshold float64) *CodeStrategy {
	return &CodeStrategy{mapper: mapper, catalog: cat, threshold: threshold}
}

// Name returns the name of this strategy for logging and debugging.
func (s *CodeStrategy) Name() string {
	return "Code"
}

// Classify looks up the input's code.
func (s *CodeStrategy) Classify(in Input) (models.ClassificationResult, bool) {
	if in.Code == 0 {
		return models.ClassificationResult{}, false
	}
	match, ok := s.mapper.Classify(in.Code)
	if !ok || match.Confidence < s.threshold {
		return models.ClassificationResult{}, false
	}

	result := models.ClassificationResult{
		CategoryID: match.CategoryID,
		Confidence: match.Confidence,
		Source:     models.SourceCode,
		Reasoning:  fmt.Sprintf("merchant code %d maps to %s", in.Code, match.CategoryID),
	}
	if cat, found := s.catalog.Get(match.CategoryID); found {
		result.SubcategoryID = subcategoryFor(cat, in.Normalized)
	}
	return result, true
}
