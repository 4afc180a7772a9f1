package cardstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardsYAML = `cards:
  - id: sapphire
    name: Sapphire Preferred
    apr: 21.49
    credit_limit: 12000
    balance: 0
    statement_close_day: 15
    due_day: 10
    rewards:
      dining:
        multiplier: 3
        note: excludes rideshare
      travel: 2
      default: 1
  - id: freedom
    name: Freedom Flex
    apr: 19.99
    balance: "250.75"
    planned_payment: 100
    statement_close_day: 1
    grace_period_days: 25
    rewards:
      quarterly:
        multiplier: 5
        active: [gas, groceries]
      default: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestStore() (*CardStore, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewCardStore(',', logger), logger
}

func TestLoad_YAML(t *testing.T) {
	store, logger := newTestStore()
	path := writeFile(t, t.TempDir(), "cards.yaml", cardsYAML)

	cards, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	sapphire := cards[0]
	assert.Equal(t, "sapphire", sapphire.ID)
	assert.Equal(t, "Sapphire Preferred", sapphire.Name)
	require.NotNil(t, sapphire.APR)
	assert.Equal(t, 21.49, *sapphire.APR)
	assert.True(t, sapphire.CreditLimit.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, 15, sapphire.StatementCloseDay)
	assert.Equal(t, 10, sapphire.DueDay)

	dining, ok := sapphire.Rewards.Get("dining")
	require.True(t, ok)
	rate, _ := dining.Rate()
	assert.Equal(t, 3.0, rate)
	assert.Equal(t, "excludes rideshare", dining.Note())

	freedom := cards[1]
	assert.True(t, freedom.Balance.Equal(decimal.RequireFromString("250.75")))
	assert.True(t, freedom.PlannedPayment.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 25, freedom.GracePeriodDays)
	assert.True(t, freedom.Rewards["quarterly"].ActiveFor("groceries"))

	assert.True(t, logger.HasEntry("INFO", "Successfully loaded cards"))
}

func TestLoadYAML_BareList(t *testing.T) {
	store, _ := newTestStore()
	cards, err := store.LoadYAML([]byte(`
- id: basic
  rewards:
    default: 1.5
`), "inline")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Nil(t, cards[0].APR)
	assert.Equal(t, 0, cards[0].StatementCloseDay)
}

func TestLoad_CSV(t *testing.T) {
	store, _ := newTestStore()
	content := strings.Join([]string{
		"id,name,apr,credit_limit,balance,statement_close_day,due_day,grace_period_days,rewards",
		`gold,Gold Card,24.99,,0,15,10,,"{""dining"":4,""groceries"":{""multiplier"":4,""notes"":""US supermarkets only""},""default"":1}"`,
		`cash,Cash Back,,5000,1200.50,3,,25,`,
	}, "\n")
	path := writeFile(t, t.TempDir(), "cards.csv", content)

	cards, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	gold := cards[0]
	require.NotNil(t, gold.APR)
	assert.Equal(t, 24.99, *gold.APR)
	assert.True(t, gold.CreditLimit.IsZero())
	groceries, ok := gold.Rewards.Get("groceries")
	require.True(t, ok)
	assert.Equal(t, "US supermarkets only", groceries.Note())

	cash := cards[1]
	assert.Nil(t, cash.APR)
	assert.True(t, cash.Balance.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, 25, cash.GracePeriodDays)
	assert.Empty(t, cash.Rewards)
	assert.NotNil(t, cash.Rewards)
}

func TestLoadCSV_CustomDelimiter(t *testing.T) {
	store := NewCardStore(';', logging.NewDiscardLogger())
	cards, err := store.LoadCSV(strings.NewReader("id;name;apr\nsemi;Semi Colon;15.5\n"), "inline")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 15.5, *cards[0].APR)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	store, _ := newTestStore()

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeFile(t, dir, "cards.json", "[]")
		_, err := store.Load(path)
		var formatErr *dataerror.UnsupportedFormatError
		assert.True(t, errors.As(err, &formatErr))
	})

	t.Run("missing id", func(t *testing.T) {
		path := writeFile(t, dir, "noid.yaml", "cards:\n  - name: Nameless\n")
		_, err := store.Load(path)
		var vErr *dataerror.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "invalid card record", vErr.Reason)
	})

	t.Run("non numeric apr", func(t *testing.T) {
		path := writeFile(t, dir, "badapr.yaml", "cards:\n  - id: x\n    apr: high\n")
		_, err := store.Load(path)
		var vErr *dataerror.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("close day out of range", func(t *testing.T) {
		path := writeFile(t, dir, "badday.yaml", "cards:\n  - id: x\n    statement_close_day: 42\n")
		_, err := store.Load(path)
		var vErr *dataerror.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Reason, "statement_close_day")
	})

	t.Run("duplicate id", func(t *testing.T) {
		path := writeFile(t, dir, "dup.yaml", "cards:\n  - id: x\n  - id: x\n")
		_, err := store.Load(path)
		var vErr *dataerror.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "duplicate card id", vErr.Reason)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, dir, "broken.yaml", "cards: [\n")
		_, err := store.Load(path)
		var pErr *dataerror.ParseError
		assert.True(t, errors.As(err, &pErr))
	})
}

func TestLoad_UnreadableRewardIsKeptAndLogged(t *testing.T) {
	store, logger := newTestStore()
	cards, err := store.LoadYAML([]byte("cards:\n  - id: x\n    rewards:\n      dining: lots\n      default: 1\n"), "inline")
	require.NoError(t, err)

	_, ok := cards[0].Rewards.Get("dining")
	assert.False(t, ok)
	assert.True(t, logger.HasEntry("WARN", "Ignoring unreadable reward entry"))
}

func TestWriteScoredCSV(t *testing.T) {
	store, _ := newTestStore()
	scored := []models.ScoredCard{
		{
			Card:          models.Card{ID: "gold", Name: "Gold Card"},
			Strategy:      models.StrategyRewards,
			Multiplier:    4,
			Cashback:      decimal.NewFromInt(4),
			AnnualValue:   decimal.NewFromInt(48),
			Score:         4,
			Recommendable: true,
			Explanation:   "Gold Card earns 4x on dining",
		},
		{
			Card:      models.Card{ID: "late"},
			Strategy:  models.StrategyGracePeriod,
			DueDate:   time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
			FloatDays: 51,
			Score:     -1000000,
			Warning:   "carries a balance",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, store.WriteScoredCSV(&buf, scored))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	col := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s missing", name)
		return ""
	}

	assert.Equal(t, "1", col(rows[1], "rank"))
	assert.Equal(t, "gold", col(rows[1], "card_id"))
	assert.Equal(t, "4.00", col(rows[1], "cashback"))
	assert.Equal(t, "48.00", col(rows[1], "annual_value"))
	assert.Equal(t, "true", col(rows[1], "recommendable"))

	assert.Equal(t, "late", col(rows[2], "card_name"))
	assert.Equal(t, "1", col(rows[2], "rank"), "rank restarts for a new strategy")
	assert.Equal(t, "2025-05-10", col(rows[2], "due_date"))
	assert.Equal(t, "51", col(rows[2], "float_days"))
	assert.Equal(t, "-1000000", col(rows[2], "score"))
	assert.Equal(t, "", col(rows[2], "cashback"))
}

func TestExportScoredCSV(t *testing.T) {
	store, logger := newTestStore()
	path := filepath.Join(t.TempDir(), "out", "ranking.csv")

	err := store.ExportScoredCSV(path, []models.ScoredCard{{Card: models.Card{ID: "a"}, Strategy: models.StrategyAPR}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "monthly_interest")
	assert.True(t, logger.HasEntry("INFO", "Successfully wrote results to CSV file"))

	assert.Error(t, store.ExportScoredCSV(path, nil))
}
