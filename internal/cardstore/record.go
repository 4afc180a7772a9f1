package cardstore

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// field holds a raw scalar from YAML or CSV. Empty means absent.
type field string

func (f *field) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = field(strings.TrimSpace(node.Value))
	return nil
}

func (f *field) UnmarshalCSV(s string) error {
	*f = field(strings.TrimSpace(s))
	return nil
}

func (f field) MarshalCSV() (string, error) {
	return string(f), nil
}

// cardRecord is a card as stored in YAML or CSV files. Reward definitions in
// CSV files are JSON in a single column.
type cardRecord struct {
	ID                string                  `yaml:"id" csv:"id" validate:"required"`
	Name              string                  `yaml:"name" csv:"name"`
	Rewards           models.RewardDefinition `yaml:"rewards" csv:"rewards"`
	APR               field                   `yaml:"apr" csv:"apr" validate:"omitempty,numeric"`
	CreditLimit       field                   `yaml:"credit_limit" csv:"credit_limit" validate:"omitempty,numeric"`
	Balance           field                   `yaml:"balance" csv:"balance" validate:"omitempty,numeric"`
	PlannedPayment    field                   `yaml:"planned_payment" csv:"planned_payment" validate:"omitempty,numeric"`
	StatementCloseDay field                   `yaml:"statement_close_day" csv:"statement_close_day" validate:"omitempty,number"`
	DueDay            field                   `yaml:"due_day" csv:"due_day" validate:"omitempty,number"`
	GracePeriodDays   field                   `yaml:"grace_period_days" csv:"grace_period_days" validate:"omitempty,number"`
}

type cardsFile struct {
	Cards []cardRecord `yaml:"cards"`
}

func (r cardRecord) toCard(source string) (models.Card, error) {
	card := models.Card{
		ID:      strings.TrimSpace(r.ID),
		Name:    strings.TrimSpace(r.Name),
		Rewards: r.Rewards,
	}
	if card.Rewards == nil {
		card.Rewards = models.RewardDefinition{}
	}

	var err error
	if r.APR != "" {
		apr, perr := strconv.ParseFloat(string(r.APR), 64)
		if perr != nil {
			return card, &dataerror.ParseError{Source: source, Field: "apr", Value: string(r.APR), Err: perr}
		}
		card.APR = &apr
	}
	if card.CreditLimit, err = parseAmount(source, "credit_limit", r.CreditLimit); err != nil {
		return card, err
	}
	if card.Balance, err = parseAmount(source, "balance", r.Balance); err != nil {
		return card, err
	}
	if card.PlannedPayment, err = parseAmount(source, "planned_payment", r.PlannedPayment); err != nil {
		return card, err
	}
	if card.StatementCloseDay, err = parseDay(source, card.ID, "statement_close_day", r.StatementCloseDay, 31); err != nil {
		return card, err
	}
	if card.DueDay, err = parseDay(source, card.ID, "due_day", r.DueDay, 31); err != nil {
		return card, err
	}
	if card.GracePeriodDays, err = parseDay(source, card.ID, "grace_period_days", r.GracePeriodDays, MaxGracePeriodDays); err != nil {
		return card, err
	}
	return card, nil
}

func parseAmount(source, name string, value field) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(value))
	if err != nil {
		return decimal.Zero, &dataerror.ParseError{Source: source, Field: name, Value: string(value), Err: err}
	}
	return d, nil
}

func parseDay(source, id, name string, value field, limit int) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, &dataerror.ParseError{Source: source, Field: name, Value: string(value), Err: err}
	}
	if n < 0 || n > limit {
		return 0, &dataerror.ValidationError{
			Source: source,
			Record: id,
			Reason: fmt.Sprintf("%s out of range 0-%d: %d", name, limit, n),
		}
	}
	return n, nil
}

// scoredRecord is one exported ranking row.
type scoredRecord struct {
	Rank            int    `csv:"rank"`
	Strategy        string `csv:"strategy"`
	CardID          string `csv:"card_id"`
	CardName        string `csv:"card_name"`
	Recommendable   bool   `csv:"recommendable"`
	Score           string `csv:"score"`
	Multiplier      string `csv:"multiplier"`
	Cashback        string `csv:"cashback"`
	AnnualValue     string `csv:"annual_value"`
	MonthlyInterest string `csv:"monthly_interest"`
	AnnualInterest  string `csv:"annual_interest"`
	FloatDays       int    `csv:"float_days"`
	DueDate         string `csv:"due_date"`
	Warning         string `csv:"warning"`
	Explanation     string `csv:"explanation"`
}

func newScoredRecord(rank int, sc models.ScoredCard) scoredRecord {
	r := scoredRecord{
		Rank:          rank,
		Strategy:      string(sc.Strategy),
		CardID:        sc.Card.ID,
		CardName:      sc.Card.DisplayName(),
		Recommendable: sc.Recommendable,
		Score:         strconv.FormatFloat(sc.Score, 'f', -1, 64),
		FloatDays:     sc.FloatDays,
		Warning:       sc.Warning,
		Explanation:   sc.Explanation,
	}
	switch sc.Strategy {
	case models.StrategyRewards:
		r.Multiplier = strconv.FormatFloat(sc.Multiplier, 'f', -1, 64)
		r.Cashback = sc.Cashback.StringFixed(2)
		r.AnnualValue = sc.AnnualValue.StringFixed(2)
	case models.StrategyAPR:
		r.MonthlyInterest = sc.MonthlyInterest.StringFixed(2)
		r.AnnualInterest = sc.AnnualInterest.StringFixed(2)
	}
	if !sc.DueDate.IsZero() {
		r.DueDate = sc.DueDate.Format("2006-01-02")
	}
	return r
}
