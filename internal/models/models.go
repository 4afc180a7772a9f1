// Package models provides the data structures shared by the catalog,
// classifier, reward matcher, cycle calculator and strategy scorers.
package models

// Category is a merchant spending classification such as dining or travel.
// Categories are loaded once by the catalog and never mutated afterwards.
type Category struct {
	ID             string        `yaml:"id" validate:"required"`
	Name           string        `yaml:"name" validate:"required"`
	Keywords       []string      `yaml:"keywords" validate:"required,min=1,dive,required"`
	Aliases        []string      `yaml:"aliases" validate:"dive,required"`
	Codes          []int         `yaml:"codes" validate:"dive,min=1,max=9999"`
	CodeConfidence float64       `yaml:"code_confidence" validate:"omitempty,gte=0.9,lte=0.99"`
	Subcategories  []Subcategory `yaml:"subcategories" validate:"dive"`
}

// Subcategory narrows a category (airlines within travel). Parent is filled in
// by the catalog at load time.
type Subcategory struct {
	ID       string   `yaml:"id" validate:"required"`
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords"`
	Parent   string   `yaml:"-"`
}

// HasSubcategory reports whether id is one of the category's subcategories.
func (c Category) HasSubcategory(id string) bool {
	for _, sub := range c.Subcategories {
		if sub.ID == id {
			return true
		}
	}
	return false
}

// ClassificationSource tags the tier that produced a classification.
type ClassificationSource string

const (
	SourceCode     ClassificationSource = "numeric-code"
	SourceCached   ClassificationSource = "cached"
	SourceKeyword  ClassificationSource = "keyword"
	SourceExternal ClassificationSource = "external"
	SourceDefault  ClassificationSource = "default"
	// SourceProvided marks a category supplied by the caller instead of
	// classified from a merchant name.
	SourceProvided ClassificationSource = "provided"
)

// ClassificationResult is the outcome of classifying a merchant. An empty
// CategoryID means no category was found.
type ClassificationResult struct {
	CategoryID    string               `json:"category_id,omitempty"`
	SubcategoryID string               `json:"subcategory_id,omitempty"`
	Confidence    float64              `json:"confidence"`
	Source        ClassificationSource `json:"source"`
	Reasoning     string               `json:"reasoning"`
}

// Matched reports whether a category was found.
func (r ClassificationResult) Matched() bool {
	return r.CategoryID != ""
}

// MatchSource tags the reward-resolution tier that produced a multiplier.
type MatchSource string

const (
	MatchExact    MatchSource = "exact"
	MatchAlias    MatchSource = "alias"
	MatchParent   MatchSource = "parent"
	MatchRotating MatchSource = "rotating"
	MatchDefault  MatchSource = "default"
)

// RewardMatch is the multiplier a card earns for a category, with how it was
// found. Multiplier is always a plain number.
type RewardMatch struct {
	CardID      string      `json:"card_id"`
	CategoryID  string      `json:"category_id"`
	Multiplier  float64     `json:"multiplier"`
	Source      MatchSource `json:"source"`
	MatchedKey  string      `json:"matched_key,omitempty"`
	Confidence  float64     `json:"confidence"`
	Note        string      `json:"note,omitempty"`
	Explanation string      `json:"explanation"`
}
