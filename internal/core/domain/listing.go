package domain

// ListingEntry is one item of listing metadata from the remote paginated
// endpoint. It carries no body text; the body is fetched separately via
// the document endpoints.
type ListingEntry struct {
	// ID is the stable document identifier.
	ID string

	// Title is the listing title.
	Title string

	// Subtitle is the listing subtitle, when present.
	Subtitle string

	// Published is the raw listing date string; may be malformed.
	Published string

	// Party is the listing's party field; often empty or "-".
	Party string

	// Speaker is the speaker name. Debate listings only.
	Speaker string

	// Decision is the chamber decision summary when the listing
	// carries one.
	Decision string

	// BodyURL is an explicit body location when the listing provides
	// one (debate entries do). Empty means the document endpoint URL
	// is derived from ID.
	BodyURL string
}

// PageCursor is the walker's ephemeral per-run state. It is never
// persisted; resumability across runs comes from the ledger, not the
// cursor.
type PageCursor struct {
	// Page is the next page number to request, starting at 1.
	Page int

	// LastFirstID is the first entry's identifier on the previous
	// page. A repeat on the next page means the upstream service is
	// looping.
	LastFirstID string

	// EmptyStreak counts consecutive pages that yielded zero new
	// entries. For newest-first walks a long streak means the walk
	// has caught up with already-ingested data.
	EmptyStreak int
}
