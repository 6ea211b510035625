package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
	"github.com/partikollen/partikollen/internal/logger"
)

// Summarisation limits, matching what the models handle comfortably for
// this corpus.
const (
	// maxSummaryDocuments caps how many documents go into one prompt.
	maxSummaryDocuments = 25

	// maxExcerptBytes caps the per-document excerpt in the prompt.
	maxExcerptBytes = 1000
)

// Ensure SummariseService implements the interface.
var _ driving.Summariser = (*SummariseService)(nil)

// SummariseService answers questions over a filtered selection of the
// corpus by building a prompt from the matching documents and asking
// the configured models in fallback order. It is best effort: each
// model is tried in sequence and the final failure is surfaced only
// after every alternate has failed. It never substitutes fabricated
// content for a failed call.
type SummariseService struct {
	searcher driving.Searcher
	model    driven.SummarisationModel
	models   []string
}

// NewSummariseService creates a summarise service. models is the
// ordered fallback list of model names.
func NewSummariseService(searcher driving.Searcher, model driven.SummarisationModel, models []string) *SummariseService {
	return &SummariseService{searcher: searcher, model: model, models: models}
}

// Summarise selects documents and asks the models the given question.
func (s *SummariseService) Summarise(ctx context.Context, question, query string, opts driving.SearchOptions) (string, error) {
	if s.model == nil || len(s.models) == 0 {
		return "", domain.ErrSummariserUnavailable
	}

	if opts.Limit <= 0 || opts.Limit > maxSummaryDocuments {
		opts.Limit = maxSummaryDocuments
	}
	records, err := s.searcher.Search(ctx, query, opts)
	if err != nil {
		return "", fmt.Errorf("select documents: %w", err)
	}
	if len(records) == 0 {
		return "", domain.ErrNoDocuments
	}

	prompt := buildPrompt(question, records)

	var errs []error
	for _, name := range s.models {
		answer, err := s.model.Generate(ctx, name, prompt)
		if err == nil {
			return answer, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn("model %s failed, trying next: %v", name, err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return "", fmt.Errorf("%w: %w", domain.ErrSummariserUnavailable, errors.Join(errs...))
}

// buildPrompt assembles the question and per-document excerpts.
func buildPrompt(question string, records []domain.Record) string {
	var sb strings.Builder
	sb.WriteString("Fråga: ")
	sb.WriteString(question)
	sb.WriteString("\nUnderlag:\n")

	for _, rec := range records {
		excerpt := rec.BodyText
		if len(excerpt) > maxExcerptBytes {
			// Back the cut off to a rune boundary; a half character
			// would reach the model as mojibake.
			cut := maxExcerptBytes
			for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
				cut--
			}
			excerpt = excerpt[:cut] + "..."
		}
		fmt.Fprintf(&sb, "\n--- %s (%s) ---\nTITEL: %s\nTEXT: %s\n",
			rec.Category, rec.Party, rec.Title, excerpt)
	}
	return sb.String()
}
