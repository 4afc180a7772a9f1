package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsCompleteCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, ExpectedCategoryCount, c.Len())

	all := c.All()
	require.Len(t, all, ExpectedCategoryCount)
	assert.Equal(t, "dining", all[0].ID)
	assert.Equal(t, "groceries", all[1].ID)
	assert.Equal(t, 0, c.Index("dining"))
	assert.Equal(t, -1, c.Index("nope"))

	for _, cat := range all {
		assert.NotEmpty(t, cat.Name, cat.ID)
		assert.NotEmpty(t, cat.Keywords, cat.ID)
	}
}

func TestMustDefault(t *testing.T) {
	assert.NotPanics(t, func() { MustDefault() })
}

func TestCatalog_Get(t *testing.T) {
	c := MustDefault()

	cat, ok := c.Get("groceries")
	require.True(t, ok)
	assert.Equal(t, "Groceries", cat.Name)
	assert.Contains(t, cat.Codes, 5411)

	_, ok = c.Get("airlines")
	assert.False(t, ok, "subcategories are not top-level categories")
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := MustDefault()
	all := c.All()
	all[0].ID = "mutated"

	first := c.All()[0]
	assert.Equal(t, "dining", first.ID)
}

func TestCatalog_FindByKeyword(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{"plain keyword", "Whole Foods Market", "groceries", true},
		{"case folded", "STARBUCKS #1234", "dining", true},
		{"surrounding space", "   shell oil 5521  ", "gas", true},
		{"short keyword on word boundary", "BART Clipper", "transit", true},
		{"short keyword inside a word", "Bartlett Plumbing", "", false},
		{"no keyword", "Acme Widgets", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := c.FindByKeyword(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, cat.ID)
		})
	}
}

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		keyword    string
		expected   bool
	}{
		{"long keyword as substring", "starbucksreserve", "starbucks", true},
		{"short keyword whole word", "shell gas #12", "shell", true},
		{"short keyword inside word", "shellfish shack", "shell", false},
		{"short keyword with punctuation", "at&t wireless", "at&t", true},
		{"short keyword at end", "sf muni bart", "bart", true},
		{"empty text", "", "toll", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsKeyword(tt.normalized, tt.keyword))
		})
	}
}

func TestCatalog_Subcategories(t *testing.T) {
	c := MustDefault()

	sub, ok := c.Subcategory("airlines")
	require.True(t, ok)
	assert.Equal(t, "travel", sub.Parent)

	parent, ok := c.ParentOf("coffee_shops")
	require.True(t, ok)
	assert.Equal(t, "dining", parent)

	_, ok = c.ParentOf("dining")
	assert.False(t, ok)

	assert.True(t, c.IsKnown("hotels"))
	assert.True(t, c.IsKnown("travel"))
	assert.False(t, c.IsKnown("spaceflight"))
}

func TestCatalog_ResolveAlias(t *testing.T) {
	c := MustDefault()

	id, ok := c.ResolveAlias("Restaurants")
	require.True(t, ok)
	assert.Equal(t, "dining", id)

	id, ok = c.ResolveAlias(" supermarkets ")
	require.True(t, ok)
	assert.Equal(t, "groceries", id)

	_, ok = c.ResolveAlias("unknown")
	assert.False(t, ok)
}

func testCategories(n int) []models.Category {
	out := make([]models.Category, n)
	for i := range out {
		id := string(rune('a' + i))
		out[i] = models.Category{ID: id, Name: "Category " + id, Keywords: []string{"kw" + id}}
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]models.Category) []models.Category
		reason string
	}{
		{
			name:   "too few categories",
			mutate: func(c []models.Category) []models.Category { return c[:13] },
			reason: "expected 14 categories",
		},
		{
			name: "duplicate id",
			mutate: func(c []models.Category) []models.Category {
				c[3].ID = c[2].ID
				return c
			},
			reason: "duplicate category id",
		},
		{
			name: "missing keywords",
			mutate: func(c []models.Category) []models.Category {
				c[0].Keywords = nil
				return c
			},
			reason: "missing or invalid fields",
		},
		{
			name: "subcategory reused",
			mutate: func(c []models.Category) []models.Category {
				c[0].Subcategories = []models.Subcategory{{ID: "x", Name: "X"}}
				c[1].Subcategories = []models.Subcategory{{ID: "x", Name: "X"}}
				return c
			},
			reason: "more than one category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mutate(testCategories(ExpectedCategoryCount)))
			require.Error(t, err)

			var vErr *dataerror.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Reason, tt.reason)
		})
	}
}

func TestNew_SetsSubcategoryParent(t *testing.T) {
	cats := testCategories(ExpectedCategoryCount)
	cats[4].Subcategories = []models.Subcategory{{ID: "sub", Name: "Sub", Keywords: []string{" MiXeD "}}}

	c, err := New(cats)
	require.NoError(t, err)

	sub, ok := c.Subcategory("sub")
	require.True(t, ok)
	assert.Equal(t, cats[4].ID, sub.Parent)
	assert.Equal(t, []string{"mixed"}, sub.Keywords)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("categories: [unterminated"))
	require.Error(t, err)

	var pErr *dataerror.ParseError
	assert.True(t, errors.As(err, &pErr))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, embeddedCatalog, 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ExpectedCategoryCount, c.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
