// Package extract turns raw HTML or PDF bytes into normalised plain
// text. Extraction is a pure transform: it never fails, and malformed
// input yields an empty string so the caller can fall back to the other
// rendering.
package extract

import (
	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor dispatches extraction by source kind.
type Extractor struct{}

// New creates a new extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns plain text for the given rendering.
func (e *Extractor) Extract(raw []byte, kind domain.SourceKind) string {
	if len(raw) == 0 {
		return ""
	}
	if kind == domain.SourcePDF {
		return PDF(raw)
	}
	return HTML(raw)
}
