package driving

import (
	"context"

	"github.com/partikollen/partikollen/internal/core/domain"
)

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// Categories selects which document types to ingest.
	// Empty means all categories.
	Categories []domain.Category

	// MaxPages bounds the walk per category. Zero means unbounded;
	// unbounded walks terminate by catching up with already-ingested
	// data or exhausting the listing.
	MaxPages int

	// PageSize is the listing page size. Zero uses the default.
	PageSize int

	// Riksmote restricts ingestion to one parliamentary year,
	// e.g. "2024/25".
	Riksmote string

	// From and To restrict ingestion to a date range (YYYY-MM-DD).
	From string
	To   string
}

// Ingestor runs the ingestion pipeline.
type Ingestor interface {
	// Ingest walks the listing for each requested category, resolves
	// body text for unseen documents and persists them. A single
	// category's failure never aborts the whole run; partial failures
	// are joined into the returned error alongside the report.
	Ingest(ctx context.Context, opts IngestOptions) (*domain.IngestionReport, error)
}
