package driving

import (
	"context"
	"time"

	"github.com/partikollen/partikollen/internal/core/domain"
)

// SearchOptions filters a corpus query.
type SearchOptions struct {
	// Categories restricts results to the given document types.
	// Empty means all categories.
	Categories []domain.Category

	// Party restricts results to one party label.
	Party string

	// From and To restrict results to a publication date range.
	From *time.Time
	To   *time.Time

	// Limit caps the number of results. Zero uses the default.
	Limit int
}

// Searcher queries the ingested corpus.
type Searcher interface {
	// Search returns records whose title or body contains the query,
	// case-insensitively, newest first. An empty query matches
	// everything and turns the call into a filtered listing.
	Search(ctx context.Context, query string, opts SearchOptions) ([]domain.Record, error)
}

// DocumentReader reads individual records back from the store.
type DocumentReader interface {
	// Get retrieves one record with its body text fully reconstructed
	// from fragments.
	Get(ctx context.Context, cat domain.Category, id string) (*domain.Record, error)

	// List returns all records in a category, newest first, without
	// reconstructing chunked bodies.
	List(ctx context.Context, cat domain.Category) ([]domain.Record, error)
}

// Summariser answers a question over a filtered selection of the corpus.
type Summariser interface {
	// Summarise selects documents matching the query and options,
	// builds a prompt from them and asks the configured models in
	// fallback order. The final error is surfaced only after every
	// model has been tried.
	Summarise(ctx context.Context, question, query string, opts SearchOptions) (string, error)
}
