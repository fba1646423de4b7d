// Package ai implements the document extraction fallback on top of the
// Gemini API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/extractor"
)

const prompt = `Analyze this bank statement text and extract ALL transactions.

For each transaction return:
- date in YYYY-MM-DD format
- description (merchant or narration, max 200 characters)
- amount as a positive number
- type: "credit" or "debit"
- category: one of %s

Respond with ONLY a JSON array of objects with keys date, description,
amount, type, category. No prose, no markdown.

Statement text:
%s`

// Gemini asks a Gemini model to extract transactions from statement text.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini dials the Gemini API. The returned client must be closed.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Extract(ctx context.Context, text string) ([]extractor.AITransaction, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(prompt, categoryList(), text)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", statement.ErrServiceUnavailable, err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", statement.ErrServiceUnavailable)
	}

	var entries []extractor.AITransaction
	if err := json.Unmarshal([]byte(stripFences(raw)), &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", statement.ErrServiceUnavailable, err)
	}
	return entries, nil
}

func categoryList() string {
	cats := statement.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
