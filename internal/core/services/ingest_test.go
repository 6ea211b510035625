package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
	"github.com/partikollen/partikollen/internal/storage/memory"
)

// fakeAPI implements both listing and document fetching for ingestion
// tests: a fixed set of pages plus per-id body failures.
type fakeAPI struct {
	pages map[int][]domain.ListingEntry
	fail  map[string]bool
}

func (f *fakeAPI) FetchPage(_ context.Context, q driven.ListingQuery) ([]domain.ListingEntry, error) {
	return f.pages[q.Page], nil
}

func (f *fakeAPI) FetchHTML(_ context.Context, entry domain.ListingEntry) ([]byte, error) {
	if f.fail[entry.ID] {
		return nil, errors.New("html unavailable")
	}
	return []byte(strings.Repeat("anförandetext ", 30) + entry.ID), nil
}

func (f *fakeAPI) FetchPDF(_ context.Context, entry domain.ListingEntry) ([]byte, error) {
	if f.fail[entry.ID] {
		return nil, errors.New("pdf unavailable")
	}
	return nil, errors.New("no pdf rendering")
}

func newTestIngestor(api *fakeAPI, store driven.DocumentStore) *Ingestor {
	return NewIngestor(api, NewResolver(api, passthroughExtractor{}), store)
}

func TestIngestor_IngestsAllPages(t *testing.T) {
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{
		1: {{ID: "m1", Title: "Motion om skatt", Subtitle: "av Jane Doe (C)", Published: "2024-01-10"}},
		2: {{ID: "m2", Title: "Motion om skola", Published: "2024-01-09"}},
	}}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)

	report, err := ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryMotion},
	})

	require.NoError(t, err)
	count := report.Count(domain.CategoryMotion)
	assert.Equal(t, 2, count.Fetched)
	assert.Equal(t, 2, count.Ingested)
	assert.Equal(t, 0, count.Skipped)

	rec, err := store.GetRecord(context.Background(), domain.CategoryMotion, "m1")
	require.NoError(t, err)
	assert.Equal(t, "C", rec.Party)
	require.NotNil(t, rec.Published)
	assert.Equal(t, "2024-01-10", rec.Published.Format("2006-01-02"))
	assert.Contains(t, rec.BodyText, "m1")
}

func TestIngestor_SecondRunIngestsNothing(t *testing.T) {
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{
		1: {{ID: "d1"}, {ID: "d2"}},
	}}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)
	opts := driving.IngestOptions{Categories: []domain.Category{domain.CategoryDebate}}

	_, err := ing.Ingest(context.Background(), opts)
	require.NoError(t, err)

	report, err := ing.Ingest(context.Background(), opts)
	require.NoError(t, err)

	count := report.Count(domain.CategoryDebate)
	assert.Equal(t, 2, count.Fetched)
	assert.Equal(t, 0, count.Ingested)
	assert.Equal(t, 2, count.Skipped)
}

func TestIngestor_DocumentFailureDoesNotAbortTheWalk(t *testing.T) {
	api := &fakeAPI{
		pages: map[int][]domain.ListingEntry{
			1: {{ID: "ok1"}, {ID: "bad"}, {ID: "ok2"}},
		},
		fail: map[string]bool{"bad": true},
	}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)

	report, err := ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryProposition},
	})

	require.NoError(t, err)
	count := report.Count(domain.CategoryProposition)
	assert.Equal(t, 2, count.Ingested)
	assert.Equal(t, 1, count.Errored)
	assert.Equal(t, []string{"bad"}, report.ErroredIDs)

	// The failed id was never marked seen, so the next run retries it.
	api.fail = nil
	report, err = ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryProposition},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(domain.CategoryProposition).Ingested)
}

func TestIngestor_FlushesAtPageGranularity(t *testing.T) {
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{
		1: {{ID: "a"}},
		2: {{ID: "b"}},
	}}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)

	_, err := ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryDebate},
	})

	require.NoError(t, err)
	// One flush per walked page plus the final flush.
	assert.GreaterOrEqual(t, store.Flushes(), 2)
}

func TestIngestor_LoopingListingStillTerminates(t *testing.T) {
	// Every page is the same page; the walker must detect the loop and
	// nothing may be recorded twice.
	same := []domain.ListingEntry{{ID: "x1"}, {ID: "x2"}}
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{1: same, 2: same, 3: same}}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)

	report, err := ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryDebate},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(domain.CategoryDebate).Ingested)

	ids, err := store.ListIDs(context.Background(), domain.CategoryDebate)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestIngestor_DecisionAttribution(t *testing.T) {
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{
		1: {{ID: "b1", Title: "Betänkande", Party: "M", Decision: "Bifall"}},
	}}
	store := memory.NewStore()
	ing := newTestIngestor(api, store)

	_, err := ing.Ingest(context.Background(), driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryDecision},
	})
	require.NoError(t, err)

	rec, err := store.GetRecord(context.Background(), domain.CategoryDecision, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.PartyCommittee, rec.Party)
	assert.Equal(t, "Bifall", rec.Decision)
}

func TestIngestor_CancelledContextAbortsRun(t *testing.T) {
	api := &fakeAPI{pages: map[int][]domain.ListingEntry{1: {{ID: "a"}}}}
	ing := newTestIngestor(api, memory.NewStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Ingest(ctx, driving.IngestOptions{
		Categories: []domain.Category{domain.CategoryDebate},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
