// Package cardstore loads candidate cards from YAML or CSV files and exports
// scored rankings to CSV. It is the file-backed stand-in for the persistence
// layer that normally supplies cards.
package cardstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/card-advisor/internal/dataerror"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// MaxGracePeriodDays bounds grace_period_days.
const MaxGracePeriodDays = 90

// CardStore reads and writes card data files.
type CardStore struct {
	delimiter rune
	validate  *validator.Validate
	logger    logging.Logger
}

// NewCardStore creates a store using delimiter for CSV files. A zero
// delimiter means a comma.
func NewCardStore(delimiter rune, logger logging.Logger) *CardStore {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CardStore{
		delimiter: delimiter,
		validate:  validator.New(),
		logger:    logging.OrDefault(logger),
	}
}

// Load reads cards from a .yaml, .yml or .csv file.
func (s *CardStore) Load(path string) ([]models.Card, error) {
	s.logger.WithField(logging.FieldFile, path).Info("Loading cards")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading cards file: %w", err)
	}

	var cards []models.Card
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cards, err = s.LoadYAML(data, path)
	case ".csv":
		cards, err = s.LoadCSV(bytes.NewReader(data), path)
	default:
		return nil, &dataerror.UnsupportedFormatError{FilePath: path, Format: ext}
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(cards)},
	).Info("Successfully loaded cards")
	return cards, nil
}

// LoadYAML parses cards from YAML. Both a top-level "cards:" list and a bare
// list are accepted.
func (s *CardStore) LoadYAML(data []byte, source string) ([]models.Card, error) {
	var file cardsFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Cards) > 0 {
		return s.convert(file.Cards, source)
	}

	var records []cardRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, &dataerror.ParseError{Source: source, Field: "cards", Value: "<yaml>", Err: err}
	}
	return s.convert(records, source)
}

// LoadCSV parses cards from CSV with a header row.
func (s *CardStore) LoadCSV(r io.Reader, source string) ([]models.Card, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.delimiter
	reader.TrimLeadingSpace = true

	var records []cardRecord
	if err := gocsv.UnmarshalCSV(reader, &records); err != nil {
		return nil, &dataerror.ParseError{Source: source, Field: "cards", Value: "<csv>", Err: err}
	}
	return s.convert(records, source)
}

func (s *CardStore) convert(records []cardRecord, source string) ([]models.Card, error) {
	cards := make([]models.Card, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, record := range records {
		if err := s.validate.Struct(record); err != nil {
			return nil, &dataerror.ValidationError{
				Source: source,
				Record: fmt.Sprintf("#%d %s", i+1, record.ID),
				Reason: "invalid card record",
				Err:    err,
			}
		}
		card, err := record.toCard(source)
		if err != nil {
			return nil, err
		}
		if seen[card.ID] {
			return nil, &dataerror.ValidationError{Source: source, Record: card.ID, Reason: "duplicate card id"}
		}
		seen[card.ID] = true

		for key, value := range card.Rewards {
			if _, ok := value.Rate(); !ok {
				s.logger.WithFields(
					logging.Field{Key: logging.FieldCard, Value: card.ID},
					logging.Field{Key: logging.FieldCategory, Value: key},
				).Warn("Ignoring unreadable reward entry")
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// WriteScoredCSV writes a ranking to w, one row per card in rank order. Rank
// restarts at 1 whenever the strategy changes, so several rankings can share
// one file.
func (s *CardStore) WriteScoredCSV(w io.Writer, scored []models.ScoredCard) error {
	records := make([]scoredRecord, len(scored))
	rank := 0
	for i, sc := range scored {
		if i == 0 || sc.Strategy != scored[i-1].Strategy {
			rank = 0
		}
		rank++
		records[i] = newScoredRecord(rank, sc)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = s.delimiter
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ExportScoredCSV writes a ranking to a CSV file, creating its directory.
func (s *CardStore) ExportScoredCSV(path string, scored []models.ScoredCard) error {
	if scored == nil {
		return fmt.Errorf("cannot write nil results to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := s.WriteScoredCSV(file, scored); err != nil {
		return err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(scored)},
	).Info("Successfully wrote results to CSV file")
	return nil
}
