package services

import (
	"context"
	"fmt"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/logger"
)

// caughtUpStreak is the number of consecutive pages yielding zero new
// entries after which an unbounded newest-first walk is considered
// caught up with already-ingested data.
const caughtUpStreak = 3

// maxFailedPages is the number of consecutive pages failing both
// attempts after which the walk gives up. Skipping past an isolated
// bad page is recoverable; a streak this long means the listing
// endpoint is down, and an unbounded walk would otherwise advance
// through failing page numbers forever.
const maxFailedPages = 5

// Walker drives sequential page requests against a listing endpoint.
// It terminates on an exhausted listing, a detected server-side loop,
// a reached page budget, or, for unbounded newest-first walks, on
// catching up with previously ingested data. A transient page error is
// retried on the same page once, then the walker advances to the next
// page number so intermittent upstream failures can never stall the
// run; a streak of maxFailedPages failed pages ends the walk with an
// error instead of advancing forever.
//
// Walker state is per invocation; nothing survives the run except what
// the ledger records.
type Walker struct {
	client   driven.ListingClient
	query    driven.ListingQuery
	maxPages int

	cursor      domain.PageCursor
	retried     bool
	failedPages int
	done        bool
}

// NewWalker creates a walker for one category.
// maxPages bounds the walk; zero means unbounded.
func NewWalker(client driven.ListingClient, query driven.ListingQuery, maxPages int) *Walker {
	return &Walker{
		client:   client,
		query:    query,
		maxPages: maxPages,
		cursor:   domain.PageCursor{Page: 1},
	}
}

// Next fetches the next page of listing entries.
//
// It returns domain.ErrEndOfListing when the walk is complete and
// domain.ErrLoopDetected when the upstream repeats itself; both are
// terminal. Entries within a page preserve upstream order.
func (w *Walker) Next(ctx context.Context) ([]domain.ListingEntry, error) {
	for {
		if w.done {
			return nil, domain.ErrEndOfListing
		}
		if w.maxPages > 0 && w.cursor.Page > w.maxPages {
			w.done = true
			return nil, domain.ErrEndOfListing
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		w.query.Page = w.cursor.Page
		entries, err := w.client.FetchPage(ctx, w.query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !w.retried {
				// One bounded retry of the same page before
				// skipping forward.
				w.retried = true
				logger.Debug("page %d failed, retrying: %v", w.cursor.Page, err)
				continue
			}
			w.retried = false
			w.failedPages++
			if w.failedPages >= maxFailedPages {
				w.done = true
				return nil, fmt.Errorf("%d consecutive pages failed, giving up: %w",
					w.failedPages, err)
			}
			logger.Warn("page %d failed twice, advancing: %v", w.cursor.Page, err)
			w.cursor.Page++
			continue
		}
		w.retried = false
		w.failedPages = 0

		if len(entries) == 0 {
			w.done = true
			return nil, domain.ErrEndOfListing
		}

		if w.cursor.LastFirstID != "" && entries[0].ID == w.cursor.LastFirstID {
			// The server is repeating itself, a known upstream
			// failure mode under heavy paging. End this walk;
			// everything ingested so far stays valid.
			w.done = true
			return nil, domain.ErrLoopDetected
		}
		w.cursor.LastFirstID = entries[0].ID

		w.cursor.Page++
		return entries, nil
	}
}

// ReportNew feeds back how many entries of the last page were actually
// new. Unbounded newest-first walks stop after caughtUpStreak pages in
// a row without anything new: the walk has reached data the ledger
// already knows.
func (w *Walker) ReportNew(count int) {
	if count > 0 {
		w.cursor.EmptyStreak = 0
		return
	}
	w.cursor.EmptyStreak++
	if w.maxPages == 0 && w.query.NewestFirst && w.cursor.EmptyStreak >= caughtUpStreak {
		logger.Info("no new entries on %d consecutive pages, caught up", w.cursor.EmptyStreak)
		w.done = true
	}
}

// Page returns the next page number to be requested. Used for progress
// reporting.
func (w *Walker) Page() int {
	return w.cursor.Page
}
