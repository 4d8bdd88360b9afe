package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/halvard/dagaz/internal/parser"
)

// DefaultModel is the Gemini model used when the config leaves it blank.
const DefaultModel = "gemini-3-flash-preview"

// Gemini implements Oracle against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Verify *Gemini satisfies Oracle at compile time.
var _ Oracle = (*Gemini)(nil)

// NewGemini creates a Gemini-backed oracle.
func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("oracle: gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("oracle: create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, logger: logger}, nil
}

// ExtractDailyMetrics runs the daily-metrics prompt for one note. Failures
// never propagate: the result carries a nil payload and a diagnostic raw
// string instead.
func (g *Gemini) ExtractDailyMetrics(ctx context.Context, content, date string) DailyExtraction {
	text, err := g.generate(ctx, dailyMetricsPrompt(date, content))
	if err != nil {
		g.logger.Warn("oracle: daily metrics call failed",
			slog.String("date", date), slog.String("error", err.Error()))
		return DailyExtraction{Raw: fmt.Sprintf("Error: %v", err)}
	}

	frag, ok := parser.LocateObject(text)
	if !ok {
		g.logger.Warn("oracle: no JSON object in response", slog.String("date", date))
		return DailyExtraction{Raw: text}
	}
	var payload MetricsPayload
	if err := json.Unmarshal(frag, &payload); err != nil {
		g.logger.Warn("oracle: response shape mismatch",
			slog.String("date", date), slog.String("error", err.Error()))
		return DailyExtraction{Raw: text}
	}
	return DailyExtraction{Metrics: &payload, Raw: text}
}

// ExtractProcrastinationEvents runs the events prompt over an aggregate
// record document. Returns an empty slice on any failure.
func (g *Gemini) ExtractProcrastinationEvents(ctx context.Context, content string) []EventPayload {
	text, err := g.generate(ctx, eventsPrompt(content))
	if err != nil {
		g.logger.Warn("oracle: events call failed", slog.String("error", err.Error()))
		return nil
	}

	frag, ok := parser.LocateArray(text)
	if !ok {
		g.logger.Warn("oracle: no JSON array in response")
		return nil
	}
	var events []EventPayload
	if err := json.Unmarshal(frag, &events); err != nil {
		g.logger.Warn("oracle: events shape mismatch", slog.String("error", err.Error()))
		return nil
	}
	return events
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}
