package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

// fakeSearcher returns a fixed result set.
type fakeSearcher struct {
	records []domain.Record
	gotOpts driving.SearchOptions
}

func (f *fakeSearcher) Search(_ context.Context, _ string, opts driving.SearchOptions) ([]domain.Record, error) {
	f.gotOpts = opts
	return f.records, nil
}

// fakeModel fails for the named models and answers for the rest.
type fakeModel struct {
	failing map[string]bool
	asked   []string
	prompt  string
}

func (f *fakeModel) Generate(_ context.Context, model, prompt string) (string, error) {
	f.asked = append(f.asked, model)
	f.prompt = prompt
	if f.failing[model] {
		return "", errors.New("model overloaded")
	}
	return "svar från " + model, nil
}

func (f *fakeModel) Close() error { return nil }

func someRecords() []domain.Record {
	return []domain.Record{
		{ID: "m1", Category: domain.CategoryMotion, Party: "C",
			Title: "Motion om bredband", BodyText: "utbyggnad av fibernät"},
	}
}

func TestSummarise_FirstModelWins(t *testing.T) {
	model := &fakeModel{}
	svc := NewSummariseService(&fakeSearcher{records: someRecords()}, model,
		[]string{"gemini-1.5-flash", "gemini-1.5-pro"})

	answer, err := svc.Summarise(context.Background(), "Vad föreslås?", "bredband", driving.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, "svar från gemini-1.5-flash", answer)
	assert.Equal(t, []string{"gemini-1.5-flash"}, model.asked)
}

func TestSummarise_FallsBackToNextModel(t *testing.T) {
	model := &fakeModel{failing: map[string]bool{"gemini-1.5-flash": true}}
	svc := NewSummariseService(&fakeSearcher{records: someRecords()}, model,
		[]string{"gemini-1.5-flash", "gemini-1.5-pro"})

	answer, err := svc.Summarise(context.Background(), "Vad föreslås?", "bredband", driving.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, "svar från gemini-1.5-pro", answer)
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro"}, model.asked)
}

func TestSummarise_AllModelsFailing(t *testing.T) {
	model := &fakeModel{failing: map[string]bool{
		"gemini-1.5-flash": true,
		"gemini-1.5-pro":   true,
	}}
	svc := NewSummariseService(&fakeSearcher{records: someRecords()}, model,
		[]string{"gemini-1.5-flash", "gemini-1.5-pro"})

	_, err := svc.Summarise(context.Background(), "Vad föreslås?", "bredband", driving.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrSummariserUnavailable)
	assert.Contains(t, err.Error(), "gemini-1.5-flash")
	assert.Contains(t, err.Error(), "gemini-1.5-pro")
}

func TestSummarise_NoMatchingDocuments(t *testing.T) {
	svc := NewSummariseService(&fakeSearcher{}, &fakeModel{}, []string{"gemini-1.5-flash"})

	_, err := svc.Summarise(context.Background(), "Vad föreslås?", "ingenting", driving.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestSummarise_NoModelConfigured(t *testing.T) {
	svc := NewSummariseService(&fakeSearcher{records: someRecords()}, nil, nil)

	_, err := svc.Summarise(context.Background(), "fråga", "", driving.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrSummariserUnavailable)
}

func TestSummarise_PromptCarriesQuestionAndDocuments(t *testing.T) {
	model := &fakeModel{}
	svc := NewSummariseService(&fakeSearcher{records: someRecords()}, model,
		[]string{"gemini-1.5-flash"})

	_, err := svc.Summarise(context.Background(), "Vad föreslås om bredband?", "bredband", driving.SearchOptions{})

	require.NoError(t, err)
	assert.Contains(t, model.prompt, "Fråga: Vad föreslås om bredband?")
	assert.Contains(t, model.prompt, "Underlag:")
	assert.Contains(t, model.prompt, "TITEL: Motion om bredband")
	assert.Contains(t, model.prompt, "fibernät")
	assert.Contains(t, model.prompt, "(C)")
}

func TestSummarise_ExcerptTruncatesOnRuneBoundary(t *testing.T) {
	// Put an "ö" (2 bytes) across the excerpt cut so a byte-offset
	// truncation would send half a character.
	records := []domain.Record{{
		ID: "m1", Category: domain.CategoryMotion, Title: "Lång motion",
		BodyText: strings.Repeat("x", 999) + "ö" + strings.Repeat("y", 500),
	}}
	model := &fakeModel{}
	svc := NewSummariseService(&fakeSearcher{records: records}, model,
		[]string{"gemini-1.5-flash"})

	_, err := svc.Summarise(context.Background(), "fråga", "", driving.SearchOptions{})

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(model.prompt))
	assert.Contains(t, model.prompt, strings.Repeat("x", 999)+"...")
}

func TestSummarise_CapsDocumentSelection(t *testing.T) {
	searcher := &fakeSearcher{records: someRecords()}
	svc := NewSummariseService(searcher, &fakeModel{}, []string{"gemini-1.5-flash"})

	_, err := svc.Summarise(context.Background(), "fråga", "", driving.SearchOptions{Limit: 1000})

	require.NoError(t, err)
	assert.Equal(t, 25, searcher.gotOpts.Limit)
}
