package driven

import (
	"context"

	"github.com/partikollen/partikollen/internal/core/domain"
)

// DocumentStore persists records and their body fragments, partitioned
// by category. Records are addressed by (category, id).
//
// SaveRecord is the atomic unit: the record, including its inline first
// fragment, is either fully stored or not at all. Trailing fragments are
// stored afterwards via SaveFragments; readers treat missing trailing
// fragments as "not yet available", never as corruption.
type DocumentStore interface {
	// SaveRecord stores or replaces a record.
	SaveRecord(ctx context.Context, rec *domain.Record) error

	// SaveFragments stores trailing body fragments for a chunked record.
	SaveFragments(ctx context.Context, fragments []domain.Fragment) error

	// GetRecord retrieves a record by category and id.
	GetRecord(ctx context.Context, cat domain.Category, id string) (*domain.Record, error)

	// ListFragments retrieves all stored fragments for a parent record.
	// Order is not guaranteed; callers sort by index.
	ListFragments(ctx context.Context, parentID string) ([]domain.Fragment, error)

	// ListIDs returns every record identifier in a category. Used to
	// rebuild the ingestion ledger at the start of a run.
	ListIDs(ctx context.Context, cat domain.Category) ([]string, error)

	// ListRecords returns every record in a category.
	ListRecords(ctx context.Context, cat domain.Category) ([]domain.Record, error)

	// Flush makes buffered writes durable. Stores that write through
	// on every save implement this as a no-op. The orchestrator calls
	// it at page granularity so an interrupted run loses at most one
	// page's worth of work.
	Flush(ctx context.Context) error

	// Close releases resources, flushing first where applicable.
	Close() error
}
