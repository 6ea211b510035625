package domain

import (
	"strings"
	"time"
)

// Category identifies the kind of parliamentary document.
// It determines the listing endpoint, the party-attribution rule and the
// storage partition.
type Category int

const (
	// CategoryDebate is a chamber debate turn (anförande).
	CategoryDebate Category = iota

	// CategoryMotion is a member or party motion.
	CategoryMotion

	// CategoryProposition is a government bill.
	CategoryProposition

	// CategoryDecision is a committee report with the chamber's decision.
	CategoryDecision
)

// AllCategories returns every known category in ingestion order.
func AllCategories() []Category {
	return []Category{CategoryDebate, CategoryMotion, CategoryProposition, CategoryDecision}
}

// String returns the English category name used in CLI output and storage.
func (c Category) String() string {
	switch c {
	case CategoryDebate:
		return "debate"
	case CategoryMotion:
		return "motion"
	case CategoryProposition:
		return "proposition"
	case CategoryDecision:
		return "decision"
	default:
		return "unknown"
	}
}

// DokTyp returns the riksdagen API document type code for the category.
func (c Category) DokTyp() string {
	switch c {
	case CategoryDebate:
		return "prot"
	case CategoryMotion:
		return "mot"
	case CategoryProposition:
		return "prop"
	case CategoryDecision:
		return "bet"
	default:
		return ""
	}
}

// ParseCategory parses a category from its English name or API type code.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debate", "debates", "prot":
		return CategoryDebate, nil
	case "motion", "motions", "mot":
		return CategoryMotion, nil
	case "proposition", "propositions", "prop":
		return CategoryProposition, nil
	case "decision", "decisions", "bet":
		return CategoryDecision, nil
	default:
		return 0, ErrUnsupportedType
	}
}

// SourceKind identifies which rendering produced the body text.
type SourceKind int

const (
	// SourceHTML means the body came from the HTML rendering.
	SourceHTML SourceKind = iota

	// SourcePDF means the body came from the PDF rendering.
	SourcePDF
)

// String returns the lowercase kind name.
func (k SourceKind) String() string {
	if k == SourcePDF {
		return "pdf"
	}
	return "html"
}

// ParseSourceKind parses a source kind from its name.
// Unknown values default to HTML, the primary rendering.
func ParseSourceKind(s string) SourceKind {
	if strings.EqualFold(strings.TrimSpace(s), "pdf") {
		return SourcePDF
	}
	return SourceHTML
}

// Record is one ingested document: a debate turn, motion, proposition
// or decision. ID is the stable upstream identifier and is unique within
// the store; re-ingesting an existing ID replaces the record in full.
type Record struct {
	// ID is the stable identifier from the source system.
	ID string

	// Category is the document kind.
	Category Category

	// Title is the document title from the listing.
	Title string

	// Subtitle is the listing subtitle, when present.
	// For motions it typically names the authors, e.g. "av Jane Doe (C)".
	Subtitle string

	// Published is the publication date. Nil when the upstream date
	// field was missing or malformed.
	Published *time.Time

	// Party is the resolved party label: a party code, "Regeringen"
	// for propositions, "Utskottet" for decisions, or "-" when unknown.
	Party string

	// Speaker is the speaker name. Debates only.
	Speaker string

	// Decision is the chamber decision summary when the listing
	// carries one. Decisions only.
	Decision string

	// BodyText is the normalised plain text. For chunked records this
	// holds only the first fragment; see Fragment. May be empty when
	// extraction failed from both renderings.
	BodyText string

	// SourceKind records which rendering produced BodyText.
	SourceKind SourceKind

	// Chunked is true when the body exceeded the chunk threshold and
	// trailing fragments are stored as sub-records.
	Chunked bool

	// CreatedAt is when the record was ingested.
	CreatedAt time.Time
}

// publishedLayouts are the date formats the listing endpoints emit.
var publishedLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParsePublished parses a listing date string.
// Returns nil for empty or malformed input rather than failing the record.
func ParsePublished(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
