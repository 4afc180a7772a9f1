package classifier

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/models"
)

// Keyword scores.
const (
	NameMatchScore    = 1.0
	KeywordMatchScore = 0.8
	ExtraKeywordBonus = 0.05
	MaxKeywordScore   = 0.95
)

// KeywordStrategy scores every category against the merchant name. A category
// whose name appears in the merchant name as whole words outranks keyword
// containment.
type KeywordStrategy struct {
	catalog   *catalog.Catalog
	phrases   [][]string
	threshold float64
}

// NewKeywordStrategy creates a KeywordStrategy accepting scores above
// threshold.
func NewKeywordStrategy(cat *catalog.Catalog, threshold float64) *KeywordStrategy {
	s := &KeywordStrategy{catalog: cat, threshold: threshold}
	for _, c := range cat.All() {
		var phrases []string
		for _, p := range []string{catalog.WordForm(catalog.Normalize(c.Name)), catalog.WordForm(strings.ReplaceAll(c.ID, "_", " "))} {
			if p != "" && !slices.Contains(phrases, p) {
				phrases = append(phrases, p)
			}
		}
		s.phrases = append(s.phrases, phrases)
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

type keywordScore struct {
	category models.Category
	score    float64
	matched  []string
	byName   bool
}

// Classify returns the best-scoring category when its score exceeds the
// threshold. Ties go to the earlier category in catalog order.
func (s *KeywordStrategy) Classify(in Input) (models.ClassificationResult, bool) {
	if in.Normalized == "" {
		return models.ClassificationResult{}, false
	}
	words := catalog.WordForm(in.Normalized)

	var best keywordScore
	for i, cat := range s.catalog.All() {
		current := s.score(cat, s.phrases[i], in.Normalized, words)
		if current.score > best.score {
			best = current
		}
	}
	if best.score <= s.threshold {
		return models.ClassificationResult{}, false
	}

	reasoning := fmt.Sprintf("merchant name contains category name %q", best.category.Name)
	if !best.byName {
		reasoning = fmt.Sprintf("matched keywords %s for %s", strings.Join(best.matched, ", "), best.category.Name)
	}
	return models.ClassificationResult{
		CategoryID:    best.category.ID,
		SubcategoryID: subcategoryFor(best.category, in.Normalized),
		Confidence:    best.score,
		Source:        models.SourceKeyword,
		Reasoning:     reasoning,
	}, true
}

func (s *KeywordStrategy) score(cat models.Category, phrases []string, normalized, words string) keywordScore {
	result := keywordScore{category: cat}
	if words != "" {
		for _, p := range phrases {
			if strings.Contains(words, p) {
				result.score = NameMatchScore
				result.byName = true
				return result
			}
		}
	}

	for _, kw := range cat.Keywords {
		if catalog.ContainsKeyword(normalized, kw) && !slices.Contains(result.matched, kw) {
			result.matched = append(result.matched, kw)
		}
	}
	if len(result.matched) > 0 {
		bonus := ExtraKeywordBonus * float64(len(result.matched)-1)
		result.score = math.Min(KeywordMatchScore+bonus, MaxKeywordScore)
	}
	return result
}
