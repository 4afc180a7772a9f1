// Package advisor is the public entry point to the card recommendation core.
// It classifies a merchant, resolves reward multipliers and ranks candidate
// cards under one or all scoring strategies.
package advisor

import (
	"context"
	"fmt"
	"time"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/classifier"
	"fjacquet/card-advisor/internal/codemap"
	"fjacquet/card-advisor/internal/cycle"
	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/dateutils"
	"fjacquet/card-advisor/internal/hint"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"
	"fjacquet/card-advisor/internal/rewards"
	"fjacquet/card-advisor/internal/strategy"

	"github.com/shopspring/decimal"
)

// Options configures an Advisor. Zero values fall back to the defaults.
type Options struct {
	// Catalog defaults to the embedded reference catalog.
	Catalog    *catalog.Catalog
	Classifier classifier.Options
	Cycle      cycle.Options
	// Hints is consulted only when local classification finds nothing.
	Hints  hint.Provider
	Logger logging.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Request describes a prospective purchase. Either Category or Merchant must
// be set; Category wins when both are.
type Request struct {
	Merchant string
	Code     int
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Cards    []models.Card
}

// Recommendation is a ranked result for one strategy.
type Recommendation struct {
	Classification models.ClassificationResult
	Purchase       strategy.Purchase
	Strategy       models.StrategyName
	Results        []models.ScoredCard
}

// Best returns the top recommendable card.
func (r Recommendation) Best() (models.ScoredCard, bool) {
	return strategy.Best(r.Results)
}

// Comparison holds the results of every strategy for one purchase.
type Comparison struct {
	Classification models.ClassificationResult
	strategy.Comparison
}

// CardObligations lists the payments a card owes.
type CardObligations struct {
	Card        models.Card
	Obligations []models.PaymentObligation
	Warning     string
}

// Advisor wires the classifier, the reward matcher and the strategy scorers.
// It is safe for concurrent use.
type Advisor struct {
	catalog    *catalog.Catalog
	classifier *classifier.Classifier
	matcher    *rewards.Matcher
	cycle      cycle.Options
	hints      hint.Provider
	logger     logging.Logger
	now        func() time.Time
}

// New builds an Advisor.
func New(opts Options) (*Advisor, error) {
	logger := logging.OrDefault(opts.Logger)

	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, fmt.Errorf("failed to load category catalog: %w", err)
		}
	}

	c, err := classifier.NewClassifier(cat, codemap.New(cat), opts.Classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Advisor{
		catalog:    cat,
		classifier: c,
		matcher:    rewards.NewMatcher(cat),
		cycle:      opts.Cycle,
		hints:      opts.Hints,
		logger:     logger,
		now:        now,
	}, nil
}

// Catalog returns the category catalog in use.
func (a *Advisor) Catalog() *catalog.Catalog {
	return a.catalog
}

// Classifier returns the merchant classifier, for cache statistics.
func (a *Advisor) Classifier() *classifier.Classifier {
	return a.classifier
}

// Classify resolves a merchant to a category. The hint provider, when set, is
// asked only after every local tier has failed.
func (a *Advisor) Classify(ctx context.Context, merchant string, code int) models.ClassificationResult {
	result := a.classifier.Classify(merchant, code)
	if result.Matched() || a.hints == nil {
		return result
	}

	h, err := a.hints.Suggest(ctx, merchant)
	if err != nil {
		a.logger.WithError(err).Warn("Classification hint unavailable",
			logging.Field{Key: logging.FieldMerchant, Value: merchant})
		return result
	}
	if h == nil {
		return result
	}
	return a.classifier.ClassifyWithHint(merchant, code, h)
}

// FindMultiplier resolves the multiplier a card earns in a category.
func (a *Advisor) FindMultiplier(card models.Card, categoryID, subcategoryID string) models.RewardMatch {
	return a.matcher.FindMultiplier(card, categoryID, subcategoryID)
}

// Recommend ranks the request's cards under one strategy.
func (a *Advisor) Recommend(ctx context.Context, req Request, name models.StrategyName) (Recommendation, error) {
	classification, purchase, err := a.prepare(ctx, req)
	if err != nil {
		return Recommendation{}, err
	}

	results, err := strategy.Score(name, req.Cards, purchase, a.matcher, a.cycle)
	if err != nil {
		return Recommendation{}, err
	}

	rec := Recommendation{
		Classification: classification,
		Purchase:       purchase,
		Strategy:       name,
		Results:        results,
	}
	a.logRecommendation(rec)
	return rec, nil
}

// Compare scores the request's cards under every strategy.
func (a *Advisor) Compare(ctx context.Context, req Request) (Comparison, error) {
	classification, purchase, err := a.prepare(ctx, req)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Classification: classification,
		Comparison:     strategy.Compare(req.Cards, purchase, a.matcher, a.cycle),
	}, nil
}

// Obligations lists each card's active payment obligations as of reference.
// A zero reference means today.
func (a *Advisor) Obligations(cards []models.Card, reference time.Time) []CardObligations {
	if reference.IsZero() {
		reference = a.now()
	}
	reference = dateutils.Civil(reference)

	out := make([]CardObligations, 0, len(cards))
	for _, card := range cards {
		calc := cycle.ForCard(card, reference, a.cycle)
		entry := CardObligations{Card: card}
		if !calc.Valid() {
			entry.Warning = fmt.Sprintf("%s has no statement close day configured", card.DisplayName())
		} else {
			entry.Obligations = calc.ActiveObligations(reference, card.AmountOwed())
		}
		out = append(out, entry)
	}
	return out
}

func (a *Advisor) prepare(ctx context.Context, req Request) (models.ClassificationResult, strategy.Purchase, error) {
	var classification models.ClassificationResult
	switch {
	case req.Category != "":
		resolved, err := a.resolveCategory(req.Category)
		if err != nil {
			return models.ClassificationResult{}, strategy.Purchase{}, err
		}
		classification = resolved
	case req.Merchant != "":
		classification = a.Classify(ctx, req.Merchant, req.Code)
	default:
		return models.ClassificationResult{}, strategy.Purchase{}, &dataerror.ValidationError{
			Source: "request",
			Reason: "either a merchant or a category is required",
		}
	}

	date := req.Date
	if date.IsZero() {
		date = a.now()
	}

	return classification, strategy.Purchase{
		CategoryID:    classification.CategoryID,
		SubcategoryID: classification.SubcategoryID,
		Amount:        req.Amount,
		Date:          dateutils.Civil(date),
	}, nil
}

// resolveCategory accepts a category id, a subcategory id or an alias.
func (a *Advisor) resolveCategory(value string) (models.ClassificationResult, error) {
	id := catalog.Normalize(value)
	provided := func(categoryID, subcategoryID string) models.ClassificationResult {
		return models.ClassificationResult{
			CategoryID:    categoryID,
			SubcategoryID: subcategoryID,
			Confidence:    1.0,
			Source:        models.SourceProvided,
			Reasoning:     fmt.Sprintf("category %q supplied with the request", value),
		}
	}

	if _, ok := a.catalog.Get(id); ok {
		return provided(id, ""), nil
	}
	if parent, ok := a.catalog.ParentOf(id); ok {
		return provided(parent, id), nil
	}
	if parent, ok := a.catalog.ResolveAlias(id); ok {
		return provided(parent, ""), nil
	}
	return models.ClassificationResult{}, &dataerror.ValidationError{
		Source: "request",
		Record: value,
		Reason: "unknown category",
	}
}

func (a *Advisor) logRecommendation(rec Recommendation) {
	fields := []logging.Field{
		{Key: logging.FieldStrategy, Value: string(rec.Strategy)},
		{Key: logging.FieldCategory, Value: rec.Purchase.CategoryID},
		{Key: logging.FieldCount, Value: len(rec.Results)},
	}
	if best, ok := rec.Best(); ok {
		fields = append(fields, logging.Field{Key: logging.FieldCard, Value: best.Card.ID})
	}
	a.logger.Debug("Cards ranked", fields...)
}
