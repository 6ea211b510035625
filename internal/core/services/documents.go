package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentReader = (*DocumentService)(nil)

// DocumentService reads records back from the store, reconstructing
// chunked bodies on demand.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a document service.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// Get retrieves one record with its body fully reconstructed.
func (s *DocumentService) Get(ctx context.Context, cat domain.Category, id string) (*domain.Record, error) {
	rec, err := s.store.GetRecord(ctx, cat, id)
	if err != nil {
		return nil, err
	}

	if rec.Chunked {
		fragments, err := s.store.ListFragments(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("list fragments for %s: %w", rec.ID, err)
		}
		rec.BodyText = domain.ReconstructBody(rec, fragments)
	}
	return rec, nil
}

// List returns all records in a category, newest first. Chunked bodies
// are left inline-only; callers that need full text use Get.
func (s *DocumentService) List(ctx context.Context, cat domain.Category) ([]domain.Record, error) {
	records, err := s.store.ListRecords(ctx, cat)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return records, nil
}

// sortNewestFirst orders records by publication date descending.
// Records without a parseable date sort last.
func sortNewestFirst(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Published, records[j].Published
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
