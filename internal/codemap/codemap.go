// Package codemap maps numeric merchant-classification codes to catalog
// categories.
package codemap

import (
	"fjacquet/card-advisor/internal/models"
)

// DefaultConfidence applies to codes whose category declares no confidence.
const DefaultConfidence = 0.9

// Match is a code resolved to a category.
type Match struct {
	CategoryID string
	Confidence float64
}

// CategorySource is the part of the catalog the mapper needs.
type CategorySource interface {
	All() []models.Category
}

// Mapper resolves codes with a fixed confidence per code. It is read-only
// after construction and safe for concurrent use.
type Mapper struct {
	codes map[int]Match
}

// New builds a mapper from every category's code list. When two categories
// claim the same code, the earlier one in catalog order wins.
func New(source CategorySource) *Mapper {
	m := &Mapper{codes: make(map[int]Match)}
	for _, cat := range source.All() {
		confidence := cat.CodeConfidence
		if confidence == 0 {
			confidence = DefaultConfidence
		}
		for _, code := range cat.Codes {
			if _, taken := m.codes[code]; taken {
				continue
			}
			m.codes[code] = Match{CategoryID: cat.ID, Confidence: confidence}
		}
	}
	return m
}

// Classify returns the category for code. Unknown or non-positive codes
// report false.
func (m *Mapper) Classify(code int) (Match, bool) {
	if m == nil || code <= 0 {
		return Match{}, false
	}
	match, ok := m.codes[code]
	return match, ok
}

// Len returns the number of known codes.
func (m *Mapper) Len() int {
	return len(m.codes)
}
