package classifier

import (
	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/models"
)

// Input is a merchant prepared for classification.
type Input struct {
	Name       string // as supplied by the caller
	Normalized string // trimmed and case-folded
	Code       int    // numeric merchant code, 0 when absent
	Hint       *Hint  // optional result from an external classifier
}

// NewInput normalizes a merchant name and code.
func NewInput(name string, code int, hint *Hint) Input {
	if code < 0 {
		code = 0
	}
	return Input{
		Name:       name,
		Normalized: catalog.Normalize(name),
		Code:       code,
		Hint:       hint,
	}
}

// Strategy is one tier of merchant classification. Strategies are tried in
// order until one reports a result.
type Strategy interface {
	// Classify returns a result and true when this tier resolves the input.
	Classify(in Input) (models.ClassificationResult, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// subcategoryFor returns the first subcategory of cat with a keyword
// contained in normalized.
func subcategoryFor(cat models.Category, normalized string) string {
	if normalized == "" {
		return ""
	}
	for _, sub := range cat.Subcategories {
		for _, kw := range sub.Keywords {
			if catalog.ContainsKeyword(normalized, kw) {
				return sub.ID
			}
		}
	}
	return ""
}
