// Package gemini adapts the Google generative AI client to the
// SummarisationModel port.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

// Ensure Model implements the interface.
var _ driven.SummarisationModel = (*Model)(nil)

// Model wraps a genai client.
type Model struct {
	client *genai.Client
}

// NewModel creates a client authenticated with the given API key.
func NewModel(ctx context.Context, apiKey string) (*Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Model{client: client}, nil
}

// Generate sends the prompt to the named model and returns the text of
// the first candidate.
func (m *Model) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := m.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %s: %w", model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: %s: empty response", model)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("gemini: %s: no text in response", model)
	}
	return answer, nil
}

// Close releases the underlying client.
func (m *Model) Close() error {
	return m.client.Close()
}
