// Package hint asks an external language model to categorize merchants the
// local classifier could not resolve. It runs on the caller side of the
// classifier: results are fed back as low-confidence hints.
package hint

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fjacquet/card-advisor/internal/catalog"
	"fjacquet/card-advisor/internal/classifier"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Provider produces a classification hint for a merchant. A nil hint with a
// nil error means the provider had no suggestion.
type Provider interface {
	Suggest(ctx context.Context, merchant string) (*classifier.Hint, error)
}

// NoopProvider never suggests anything. It is used when AI hints are disabled.
type NoopProvider struct{}

// Suggest always returns no hint.
func (NoopProvider) Suggest(context.Context, string) (*classifier.Hint, error) {
	return nil, nil
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements Provider with the Google Gemini API.
type GeminiProvider struct {
	client     *genai.Client
	model      generator
	categories []models.Category
	timeout    time.Duration
	logger     logging.Logger
}

// NewGeminiProvider creates a Gemini-backed provider. Close releases the
// underlying client.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, timeout time.Duration, cat *catalog.Catalog, logger logging.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	p := newProvider(model, cat, timeout, logger)
	p.client = client
	return p, nil
}

func newProvider(model generator, cat *catalog.Catalog, timeout time.Duration, logger logging.Logger) *GeminiProvider {
	return &GeminiProvider{
		model:      model,
		categories: cat.All(),
		timeout:    timeout,
		logger:     logging.OrDefault(logger),
	}
}

// Suggest asks Gemini to pick one catalog category for merchant.
func (p *GeminiProvider) Suggest(ctx context.Context, merchant string) (*classifier.Hint, error) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return nil, nil
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := p.logger.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "gemini_hint"},
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
	)
	log.Debug("Requesting category hint from Gemini")

	resp, err := p.model.GenerateContent(ctx, genai.Text(buildPrompt(merchant, p.categories)))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	h, ok := parseResponse(text)
	if !ok {
		log.WithField(logging.FieldReason, text).Warn("Unparseable Gemini response")
		return nil, nil
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: h.CategoryID},
		logging.Field{Key: logging.FieldConfidence, Value: h.Confidence},
	).Debug("Gemini suggested a category")
	return h, nil
}

// Close releases the Gemini client.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func buildPrompt(merchant string, categories []models.Category) string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = fmt.Sprintf("%s (%s)", c.ID, c.Name)
	}
	return fmt.Sprintf(`Classify the merchant of a credit card purchase.
Merchant: %s

Pick exactly one of these category ids, or "none" if none applies:
%s

Respond in this format:
Category: [category id]
Confidence: [number between 0 and 1]
Reason: [brief explanation]`, merchant, strings.Join(ids, ", "))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(fmt.Sprintf("%v", part))
	}
	return strings.TrimSpace(b.String())
}

// parseResponse reads the "Category:/Confidence:/Reason:" reply. A missing
// confidence counts as 0.5; "none" is no suggestion.
func parseResponse(text string) (*classifier.Hint, bool) {
	h := &classifier.Hint{Confidence: 0.5}
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found {
			continue
		}
		value = strings.Trim(value, "[]\"'`* \t")
		switch strings.ToLower(strings.Trim(key, "* ")) {
		case "category":
			h.CategoryID = strings.ToLower(value)
		case "confidence":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 && f <= 1 {
				h.Confidence = f
			}
		case "reason", "description":
			h.Reasoning = value
		}
	}
	if h.CategoryID == "" || h.CategoryID == "none" {
		return nil, false
	}
	return h, true
}
