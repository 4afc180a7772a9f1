// Package rewards resolves the multiplier a card earns for a category.
package rewards

import (
	"fmt"
	"strings"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/models"
)

// Confidence per resolution tier.
const (
	ExactConfidence        = 1.0
	AliasConfidence        = 0.9
	ParentConfidence       = 0.8
	RotatingConfidence     = 0.75
	DefaultEntryConfidence = 0.5
	ImplicitBaseConfidence = 0.3
	ImplicitBaseMultiplier = 1.0
)

// Matcher is read-only and safe for concurrent use.
type Matcher struct {
	catalog *catalog.Catalog
}

// NewMatcher creates a Matcher resolving aliases and subcategories against cat.
func NewMatcher(cat *catalog.Catalog) *Matcher {
	return &Matcher{catalog: cat}
}

// FindMultiplier resolves the card's multiplier for categoryID, trying exact,
// alias, parent/subcategory, rotating and default entries in that order. It
// always returns a usable multiplier.
func (m *Matcher) FindMultiplier(card models.Card, categoryID, subcategoryID string) models.RewardMatch {
	categoryID = catalog.Normalize(categoryID)
	subcategoryID = catalog.Normalize(subcategoryID)

	match, ok := m.resolve(card.Rewards, categoryID, subcategoryID)
	if !ok {
		match = defaultMatch(card.Rewards)
	}
	match.CardID = card.ID
	match.CategoryID = categoryID
	match.Explanation = explain(card, categoryID, match)
	return match
}

func (m *Matcher) resolve(def models.RewardDefinition, categoryID, subcategoryID string) (models.RewardMatch, bool) {
	if categoryID == "" || categoryID == models.DefaultRewardKey {
		return models.RewardMatch{}, false
	}

	if v, ok := def.Get(categoryID); ok {
		return fromValue(v, categoryID, models.MatchExact, ExactConfidence), true
	}

	if match, ok := m.alias(def, categoryID); ok {
		return match, true
	}

	if match, ok := m.parent(def, categoryID, subcategoryID); ok {
		return match, true
	}

	for _, key := range def.Keys() {
		if strings.EqualFold(key, models.DefaultRewardKey) {
			continue
		}
		v := def[key]
		if _, valid := v.Rate(); valid && v.ActiveFor(categoryID) {
			return fromValue(v, key, models.MatchRotating, RotatingConfidence), true
		}
	}
	return models.RewardMatch{}, false
}

// alias checks the category's alternate reward-definition keys.
func (m *Matcher) alias(def models.RewardDefinition, categoryID string) (models.RewardMatch, bool) {
	if m.catalog == nil {
		return models.RewardMatch{}, false
	}
	cat, ok := m.catalog.Get(categoryID)
	if !ok {
		return models.RewardMatch{}, false
	}
	for _, alias := range cat.Aliases {
		if v, ok := def.Get(alias); ok {
			return fromValue(v, alias, models.MatchAlias, AliasConfidence), true
		}
	}
	return models.RewardMatch{}, false
}

// parent covers two shapes: a subcategory of categoryID with its own entry,
// and a categoryID that is itself a subcategory whose parent has an entry.
func (m *Matcher) parent(def models.RewardDefinition, categoryID, subcategoryID string) (models.RewardMatch, bool) {
	if m.catalog == nil {
		return models.RewardMatch{}, false
	}
	if subcategoryID != "" {
		if cat, ok := m.catalog.Get(categoryID); ok && cat.HasSubcategory(subcategoryID) {
			if v, ok := def.Get(subcategoryID); ok {
				return fromValue(v, subcategoryID, models.MatchParent, ParentConfidence), true
			}
		}
	}
	if parent, ok := m.catalog.ParentOf(categoryID); ok {
		if v, ok := def.Get(parent); ok {
			return fromValue(v, parent, models.MatchParent, ParentConfidence), true
		}
	}
	return models.RewardMatch{}, false
}

func defaultMatch(def models.RewardDefinition) models.RewardMatch {
	if v, ok := def.Get(models.DefaultRewardKey); ok {
		return fromValue(v, models.DefaultRewardKey, models.MatchDefault, DefaultEntryConfidence)
	}
	return models.RewardMatch{
		Multiplier: ImplicitBaseMultiplier,
		Source:     models.MatchDefault,
		Confidence: ImplicitBaseConfidence,
	}
}

func fromValue(v models.RewardValue, key string, source models.MatchSource, confidence float64) models.RewardMatch {
	rate, _ := v.Rate()
	return models.RewardMatch{
		Multiplier: rate,
		Source:     source,
		MatchedKey: key,
		Confidence: confidence,
		Note:       v.Note(),
	}
}

func explain(card models.Card, categoryID string, match models.RewardMatch) string {
	category := categoryID
	if category == "" {
		category = "uncategorized purchases"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s earns %s on %s", card.DisplayName(), models.FormatMultiplier(match.Multiplier), category)
	switch match.Source {
	case models.MatchAlias, models.MatchParent:
		fmt.Fprintf(&b, " via its %s rate", match.MatchedKey)
	case models.MatchRotating:
		fmt.Fprintf(&b, " (rotating %s category)", match.MatchedKey)
	case models.MatchDefault:
		if match.MatchedKey == "" {
			b.WriteString(" (no reward entry, base rate assumed)")
		} else {
			b.WriteString(" (default rate)")
		}
	}
	if match.Note != "" {
		fmt.Fprintf(&b, "; note: %s", match.Note)
	}
	return b.String()
}
