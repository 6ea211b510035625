package services

import (
	"context"
	"fmt"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/logger"
)

// Ledger tracks which document identifiers are already ingested for one
// category. It is loaded once at the start of a run and is the sole
// admission check: a seen identifier is never fetched or extracted
// again, which is what makes interrupted runs resumable.
type Ledger struct {
	store    driven.DocumentStore
	category domain.Category
	ids      map[string]struct{}
}

// LoadLedger rebuilds the ledger for a category from the store.
func LoadLedger(ctx context.Context, store driven.DocumentStore, cat domain.Category) (*Ledger, error) {
	ids, err := store.ListIDs(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("load ledger for %s: %w", cat, err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	logger.Debug("ledger for %s loaded with %d known ids", cat, len(set))

	return &Ledger{store: store, category: cat, ids: set}, nil
}

// Seen reports whether an identifier is already ingested.
func (l *Ledger) Seen(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Size returns the number of known identifiers.
func (l *Ledger) Size() int {
	return len(l.ids)
}

// Record persists a record and marks its identifier seen.
//
// The record with its inline first fragment is the atomic unit: the
// identifier becomes visible to Seen only after that write succeeds.
// Trailing fragments of an oversized body are written afterwards; a
// failure there is logged but does not unmark the record, since readers
// treat missing trailing fragments as not yet available.
func (l *Ledger) Record(ctx context.Context, rec *domain.Record) error {
	fragments := domain.SplitBody(rec)

	if err := l.store.SaveRecord(ctx, rec); err != nil {
		return fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	l.ids[rec.ID] = struct{}{}

	if len(fragments) > 0 {
		if err := l.store.SaveFragments(ctx, fragments); err != nil {
			logger.Warn("record %s saved but %d trailing fragments failed: %v",
				rec.ID, len(fragments), err)
		}
	}
	return nil
}
