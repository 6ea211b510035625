package services

import (
	"context"
	"strings"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

// DefaultSearchLimit caps result sets when the caller does not.
const DefaultSearchLimit = 50

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// SearchService performs case-insensitive substring search over titles
// and body text, with category, party and date-range filters. It scans
// the store directly; the corpus sizes in scope do not warrant an index.
type SearchService struct {
	store driven.DocumentStore
}

// NewSearchService creates a search service.
func NewSearchService(store driven.DocumentStore) *SearchService {
	return &SearchService{store: store}
}

// Search returns matching records, newest first. An empty query matches
// everything, turning the call into a filtered listing.
func (s *SearchService) Search(ctx context.Context, query string, opts driving.SearchOptions) ([]domain.Record, error) {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	var matches []domain.Record
	for _, cat := range categories {
		records, err := s.store.ListRecords(ctx, cat)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if !s.matches(ctx, rec, needle, opts) {
				continue
			}
			matches = append(matches, rec)
		}
	}

	sortNewestFirst(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// matches applies the filters and the substring check to one record.
func (s *SearchService) matches(ctx context.Context, rec domain.Record, needle string, opts driving.SearchOptions) bool {
	if opts.Party != "" && !strings.EqualFold(rec.Party, opts.Party) {
		return false
	}
	if opts.From != nil && (rec.Published == nil || rec.Published.Before(*opts.From)) {
		return false
	}
	if opts.To != nil && (rec.Published == nil || rec.Published.After(*opts.To)) {
		return false
	}
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(rec.Title), needle) {
		return true
	}
	body := rec.BodyText
	if rec.Chunked {
		// The inline fragment usually suffices; pull the rest only
		// when it does not already match.
		if strings.Contains(strings.ToLower(body), needle) {
			return true
		}
		fragments, err := s.store.ListFragments(ctx, rec.ID)
		if err == nil {
			body = domain.ReconstructBody(&rec, fragments)
		}
	}
	return strings.Contains(strings.ToLower(body), needle)
}
