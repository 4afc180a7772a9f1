// Package catalog holds the fixed registry of merchant categories used by the
// classifier and the reward matcher. The registry is loaded once, validated,
// and read-only afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// ExpectedCategoryCount is the size of a complete catalog.
const ExpectedCategoryCount = 14

// ShortKeywordLength is the longest keyword, in runes, that only matches whole
// words. "bart" matches "BART Clipper" but not "Bartlett Plumbing".
const ShortKeywordLength = 5

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Categories []models.Category `yaml:"categories" validate:"dive"`
}

// Catalog is an immutable, ordered set of categories.
type Catalog struct {
	categories    []models.Category
	byID          map[string]int
	subcategories map[string]models.Subcategory
	aliases       map[string]string
}

// Load parses and validates catalog YAML.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &dataerror.ParseError{Source: "catalog", Field: "categories", Value: "<yaml>", Err: err}
	}
	return New(file.Categories)
}

// LoadFile reads and validates a catalog YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	return Load(data)
}

// Default returns the embedded reference catalog.
func Default() (*Catalog, error) {
	return Load(embeddedCatalog)
}

// MustDefault returns the embedded catalog and panics when it is invalid. An
// incomplete catalog is a build defect, so start-up must fail.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("invalid embedded catalog: %v", err))
	}
	return c
}

// New validates categories and builds a catalog that preserves their order.
func New(categories []models.Category) (*Catalog, error) {
	if err := validate(categories); err != nil {
		return nil, err
	}

	c := &Catalog{
		categories:    make([]models.Category, len(categories)),
		byID:          make(map[string]int, len(categories)),
		subcategories: make(map[string]models.Subcategory),
		aliases:       make(map[string]string),
	}

	for i, cat := range categories {
		cat.Keywords = c.foldAll(cat.Keywords)
		cat.Aliases = c.foldAll(cat.Aliases)
		subs := make([]models.Subcategory, len(cat.Subcategories))
		for j, sub := range cat.Subcategories {
			sub.Keywords = c.foldAll(sub.Keywords)
			sub.Parent = cat.ID
			subs[j] = sub
			c.subcategories[sub.ID] = sub
		}
		cat.Subcategories = subs
		c.categories[i] = cat
		c.byID[cat.ID] = i
		for _, alias := range cat.Aliases {
			if _, taken := c.aliases[alias]; !taken {
				c.aliases[alias] = cat.ID
			}
		}
	}
	return c, nil
}

var structValidator = validator.New()

func validate(categories []models.Category) error {
	if len(categories) != ExpectedCategoryCount {
		return &dataerror.ValidationError{
			Source: "catalog",
			Reason: fmt.Sprintf("expected %d categories, got %d", ExpectedCategoryCount, len(categories)),
		}
	}

	seen := make(map[string]bool, len(categories))
	seenSub := make(map[string]bool)
	for _, cat := range categories {
		if err := structValidator.Struct(cat); err != nil {
			return &dataerror.ValidationError{Source: "catalog", Record: cat.ID, Reason: "missing or invalid fields", Err: err}
		}
		if seen[cat.ID] {
			return &dataerror.ValidationError{Source: "catalog", Record: cat.ID, Reason: "duplicate category id"}
		}
		seen[cat.ID] = true
		for _, sub := range cat.Subcategories {
			if seenSub[sub.ID] {
				return &dataerror.ValidationError{Source: "catalog", Record: sub.ID, Reason: "subcategory belongs to more than one category"}
			}
			seenSub[sub.ID] = true
		}
	}
	for id := range seenSub {
		if seen[id] {
			return &dataerror.ValidationError{Source: "catalog", Record: id, Reason: "subcategory id collides with a category id"}
		}
	}
	return nil
}

func (c *Catalog) foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = c.Normalize(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Normalize trims and case-folds text the same way keywords are stored.
func (c *Catalog) Normalize(text string) string {
	return Normalize(text)
}

// Normalize trims and case-folds text. A Caser is stateful, so a fresh one is
// taken per call.
func Normalize(text string) string {
	return cases.Fold().String(strings.TrimSpace(text))
}

// WordForm reduces text to space-separated letter and digit runs, padded with
// a space on each side so phrases can be matched on word boundaries.
func WordForm(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return ""
	}
	return " " + strings.Join(words, " ") + " "
}

// ContainsKeyword reports whether the normalized text contains kw. Keywords up
// to ShortKeywordLength runes must match whole words.
func ContainsKeyword(normalized, kw string) bool {
	if utf8.RuneCountInString(kw) > ShortKeywordLength {
		return strings.Contains(normalized, kw)
	}
	form := WordForm(kw)
	return form != "" && strings.Contains(WordForm(normalized), form)
}

// Get returns the category with the given id.
func (c *Catalog) Get(id string) (models.Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Category{}, false
	}
	return c.categories[i], true
}

// All returns every category in catalog order. The slice is a copy.
func (c *Catalog) All() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// Index returns the catalog position of a category, or -1.
func (c *Catalog) Index(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// FindByKeyword returns the first category, in catalog order, with a keyword
// contained in text. Short keywords match whole words only.
func (c *Catalog) FindByKeyword(text string) (models.Category, bool) {
	normalized := c.Normalize(text)
	if normalized == "" {
		return models.Category{}, false
	}
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if ContainsKeyword(normalized, kw) {
				return cat, true
			}
		}
	}
	return models.Category{}, false
}

// Subcategory returns the subcategory with the given id.
func (c *Catalog) Subcategory(id string) (models.Subcategory, bool) {
	sub, ok := c.subcategories[id]
	return sub, ok
}

// ParentOf returns the parent category id of a subcategory.
func (c *Catalog) ParentOf(subcategoryID string) (string, bool) {
	sub, ok := c.subcategories[subcategoryID]
	if !ok {
		return "", false
	}
	return sub.Parent, true
}

// ResolveAlias maps an alternate reward-definition key to its category id.
func (c *Catalog) ResolveAlias(key string) (string, bool) {
	id, ok := c.aliases[c.Normalize(key)]
	return id, ok
}

// IsKnown reports whether id names a category or a subcategory.
func (c *Catalog) IsKnown(id string) bool {
	if _, ok := c.byID[id]; ok {
		return true
	}
	_, ok := c.subcategories[id]
	return ok
}
