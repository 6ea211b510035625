package driven

import (
	"context"

	"github.com/partikollen/partikollen/internal/core/domain"
)

// ListingQuery selects one page of listing metadata.
type ListingQuery struct {
	// Category selects the document type to list.
	Category domain.Category

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of entries per page.
	PageSize int

	// Riksmote restricts the listing to one parliamentary year,
	// e.g. "2024/25". Empty means no restriction.
	Riksmote string

	// From and To restrict the listing to a date range (YYYY-MM-DD).
	// Empty means unbounded.
	From string
	To   string

	// NewestFirst requests descending date order. Used by unbounded
	// catch-up walks so the walker can stop once it reaches
	// already-ingested data.
	NewestFirst bool
}

// ListingClient fetches pages of listing metadata from the remote
// paginated endpoint. An empty result with a nil error means the listing
// is exhausted (or the response lacked the expected wrapper); a non-nil
// error is transient and the walker decides how to proceed.
type ListingClient interface {
	// FetchPage fetches one page of listing entries. Single-entry
	// responses are normalised into a one-element slice.
	FetchPage(ctx context.Context, q ListingQuery) ([]domain.ListingEntry, error)
}

// DocumentClient fetches document renderings. The HTML rendering is the
// primary source of body text; the PDF rendering at a parallel URL
// pattern is the fallback for documents published as PDF only.
type DocumentClient interface {
	// FetchHTML fetches the HTML rendering of an entry's body.
	FetchHTML(ctx context.Context, entry domain.ListingEntry) ([]byte, error)

	// FetchPDF fetches the PDF rendering of an entry's body.
	FetchPDF(ctx context.Context, entry domain.ListingEntry) ([]byte, error)
}
