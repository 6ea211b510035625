package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

// mockSearcher implements driving.Searcher for testing.
type mockSearcher struct {
	results  []domain.Record
	gotQuery string
	gotOpts  driving.SearchOptions
}

func (m *mockSearcher) Search(_ context.Context, query string, opts driving.SearchOptions) ([]domain.Record, error) {
	m.gotQuery = query
	m.gotOpts = opts
	return m.results, nil
}

func setupSearchTest(results []domain.Record) (*mockSearcher, func()) {
	old := searchService
	oldCats, oldParty, oldFrom, oldTo, oldLimit, oldJSON :=
		searchCategories, searchParty, searchFrom, searchTo, searchLimit, searchJSON
	searchCategories, searchParty, searchFrom, searchTo, searchLimit, searchJSON =
		nil, "", "", "", 0, false

	mock := &mockSearcher{results: results}
	searchService = mock
	return mock, func() {
		searchService = old
		searchCategories, searchParty, searchFrom, searchTo, searchLimit, searchJSON =
			oldCats, oldParty, oldFrom, oldTo, oldLimit, oldJSON
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_TableOutput(t *testing.T) {
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock, cleanup := setupSearchTest([]domain.Record{
		{ID: "m1", Category: domain.CategoryMotion, Title: "Motion om kärnkraft",
			Party: "M", Published: &published, BodyText: "utbyggnad av kärnkraften"},
	})
	defer cleanup()

	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)

	err := runSearch(searchCmd, []string{"kärnkraft"})

	require.NoError(t, err)
	assert.Equal(t, "kärnkraft", mock.gotQuery)
	out := buf.String()
	assert.Contains(t, out, "Motion om kärnkraft")
	assert.Contains(t, out, "m1")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "(M)")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupSearchTest(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)

	err := runSearch(searchCmd, nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupSearchTest([]domain.Record{
		{ID: "m1", Category: domain.CategoryMotion, Title: "Motion om tull"},
	})
	defer cleanup()
	searchJSON = true

	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)

	err := runSearch(searchCmd, []string{"tull"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Motion om tull"`)
}

func TestSearchCmd_FilterFlags(t *testing.T) {
	mock, cleanup := setupSearchTest(nil)
	defer cleanup()
	searchCategories = []string{"motion"}
	searchParty = "S"
	searchFrom = "2024-01-01"

	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)

	err := runSearch(searchCmd, nil)

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryMotion}, mock.gotOpts.Categories)
	assert.Equal(t, "S", mock.gotOpts.Party)
	require.NotNil(t, mock.gotOpts.From)
	assert.Equal(t, "2024-01-01", mock.gotOpts.From.Format("2006-01-02"))
}

func TestSearchCmd_InvalidDateFlag(t *testing.T) {
	_, cleanup := setupSearchTest(nil)
	defer cleanup()
	searchFrom = "01/01/2024"

	err := runSearch(searchCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestSearchCmd_UnconfiguredService(t *testing.T) {
	old := searchService
	searchService = nil
	defer func() { searchService = old }()

	err := runSearch(searchCmd, nil)
	assert.Error(t, err)
}
