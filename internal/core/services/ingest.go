package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
	"github.com/partikollen/partikollen/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.Ingestor = (*Ingestor)(nil)

// Ingestor composes the walker, resolver and ledger into the per-category
// ingestion pipeline. Processing is strictly sequential: one in-flight
// request at a time, the shared client rate limit pacing every fetch.
type Ingestor struct {
	listing  driven.ListingClient
	resolver *Resolver
	store    driven.DocumentStore
	now      func() time.Time
}

// NewIngestor creates an ingestor.
func NewIngestor(listing driven.ListingClient, resolver *Resolver, store driven.DocumentStore) *Ingestor {
	return &Ingestor{
		listing:  listing,
		resolver: resolver,
		store:    store,
		now:      time.Now,
	}
}

// Ingest runs the pipeline for each requested category.
//
// A single category's failure never aborts the remaining categories;
// per-category errors are joined into the returned error next to the
// report. Cancellation is honoured between documents and between pages,
// and the last store flush defines the resumption boundary.
func (s *Ingestor) Ingest(ctx context.Context, opts driving.IngestOptions) (*domain.IngestionReport, error) {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}

	report := domain.NewIngestionReport()
	var errs []error
	for _, cat := range categories {
		logger.Section(fmt.Sprintf("ingest %s", cat))
		if err := s.ingestCategory(ctx, cat, opts, report); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			errs = append(errs, fmt.Errorf("ingest %s: %w", cat, err))
		}
	}
	return report, errors.Join(errs...)
}

// ingestCategory walks one category's listing to completion.
func (s *Ingestor) ingestCategory(
	ctx context.Context,
	cat domain.Category,
	opts driving.IngestOptions,
	report *domain.IngestionReport,
) error {
	ledger, err := LoadLedger(ctx, s.store, cat)
	if err != nil {
		return err
	}

	query := driven.ListingQuery{
		Category: cat,
		PageSize: opts.PageSize,
		Riksmote: opts.Riksmote,
		From:     opts.From,
		To:       opts.To,
		// Unbounded walks go newest first so the caught-up check can
		// terminate them once they reach already-ingested data.
		NewestFirst: opts.MaxPages == 0,
	}
	walker := NewWalker(s.listing, query, opts.MaxPages)
	count := report.Count(cat)

	for {
		entries, err := walker.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEndOfListing):
				return s.store.Flush(ctx)
			case errors.Is(err, domain.ErrLoopDetected):
				logger.Warn("%s: listing loop detected, ending walk early", cat)
				return s.store.Flush(ctx)
			default:
				return err
			}
		}

		newOnPage := 0
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			count.Fetched++

			if ledger.Seen(entry.ID) {
				count.Skipped++
				continue
			}

			if err := s.ingestOne(ctx, cat, entry, ledger); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A single document's failure never aborts the
				// walk. The id was not marked seen, so the next
				// run retries it.
				count.Errored++
				report.ErroredIDs = append(report.ErroredIDs, entry.ID)
				logger.Warn("skipping %s: %v", entry.ID, err)
				continue
			}
			count.Ingested++
			newOnPage++
		}

		walker.ReportNew(newOnPage)

		// Flush at page granularity so an interruption loses at most
		// one page's worth of work.
		if err := s.store.Flush(ctx); err != nil {
			return fmt.Errorf("flush after page: %w", err)
		}
		logger.Info("%s page %d: %d new", cat, walker.Page()-1, newOnPage)
	}
}

// ingestOne resolves, enriches and persists a single document.
func (s *Ingestor) ingestOne(
	ctx context.Context,
	cat domain.Category,
	entry domain.ListingEntry,
	ledger *Ledger,
) error {
	body, kind, err := s.resolver.Resolve(ctx, entry)
	if err != nil {
		return err
	}

	rec := &domain.Record{
		ID:         entry.ID,
		Category:   cat,
		Title:      entry.Title,
		Subtitle:   entry.Subtitle,
		Published:  domain.ParsePublished(entry.Published),
		Party:      domain.AttributeParty(cat, entry.Party, entry.Title, entry.Subtitle),
		Speaker:    entry.Speaker,
		Decision:   entry.Decision,
		BodyText:   body,
		SourceKind: kind,
		CreatedAt:  s.now(),
	}

	return ledger.Record(ctx, rec)
}
