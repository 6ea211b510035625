package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/logger"
)

// minHTMLRunes is the minimum extracted-text length below which the
// HTML rendering is treated as a stub. Length is a cheap, robust proxy
// for completeness: no structural marker reliably distinguishes real
// content from a placeholder across all document categories.
const minHTMLRunes = 300

// notPublishedMarker is the stub phrase the upstream serves for
// documents whose HTML rendering has not been generated yet. Kept as
// the single point of change behind the quality check.
const notPublishedMarker = "Dokumentet är inte publicerat"

// Resolver decides whether to trust the HTML rendering of a document or
// fall back to the PDF rendering. Some documents are published as
// scanned PDF before any HTML exists, or the HTML renders as a stub.
type Resolver struct {
	docs    driven.DocumentClient
	extract driven.Extractor
}

// NewResolver creates a resolver.
func NewResolver(docs driven.DocumentClient, extract driven.Extractor) *Resolver {
	return &Resolver{docs: docs, extract: extract}
}

// Resolve fetches and extracts the body text for a listing entry.
//
// The HTML rendering is tried first. If its text is too short or
// carries the not-published marker, the PDF rendering is fetched and
// the longer of the two candidates wins, non-empty preferred over
// empty. An error is returned only when both renderings fail to fetch;
// insufficient text from both is not an error, the record is kept with
// an empty body for a later re-attempt.
func (r *Resolver) Resolve(ctx context.Context, entry domain.ListingEntry) (string, domain.SourceKind, error) {
	var htmlText string
	htmlRaw, htmlErr := r.docs.FetchHTML(ctx, entry)
	if htmlErr == nil {
		htmlText = r.extract.Extract(htmlRaw, domain.SourceHTML)
	}

	if htmlErr == nil && htmlSufficient(htmlText) {
		return htmlText, domain.SourceHTML, nil
	}

	var pdfText string
	pdfRaw, pdfErr := r.docs.FetchPDF(ctx, entry)
	if pdfErr == nil {
		pdfText = r.extract.Extract(pdfRaw, domain.SourcePDF)
	}

	if htmlErr != nil && pdfErr != nil {
		return "", domain.SourceHTML, fmt.Errorf("fetch body for %s: %w",
			entry.ID, errors.Join(htmlErr, pdfErr))
	}

	if len(pdfText) > len(htmlText) {
		logger.Debug("%s: PDF fallback won (%d > %d chars)", entry.ID, len(pdfText), len(htmlText))
		return pdfText, domain.SourcePDF, nil
	}
	if htmlText == "" {
		logger.Warn("%s: no usable text from either rendering, storing empty body", entry.ID)
	}
	return htmlText, domain.SourceHTML, nil
}

// htmlSufficient is the quality check for the primary rendering.
func htmlSufficient(text string) bool {
	if utf8.RuneCountInString(text) < minHTMLRunes {
		return false
	}
	return !strings.Contains(text, notPublishedMarker)
}
