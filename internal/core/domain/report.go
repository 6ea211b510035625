package domain

// CategoryCount tallies one category's ingestion run.
type CategoryCount struct {
	// Fetched is the number of listing entries seen.
	Fetched int

	// Ingested is the number of new records persisted.
	Ingested int

	// Skipped is the number of entries already present in the ledger.
	Skipped int

	// Errored is the number of entries that failed and were skipped
	// this run. They were never marked seen and will be retried on the
	// next run.
	Errored int
}

// IngestionReport summarises a multi-category ingestion run.
type IngestionReport struct {
	// Counts holds the per-category tallies.
	Counts map[Category]*CategoryCount

	// ErroredIDs lists the identifiers that failed this run.
	ErroredIDs []string
}

// NewIngestionReport creates an empty report.
func NewIngestionReport() *IngestionReport {
	return &IngestionReport{
		Counts: make(map[Category]*CategoryCount),
	}
}

// Count returns the tally for a category, creating it on first use.
func (r *IngestionReport) Count(cat Category) *CategoryCount {
	c, ok := r.Counts[cat]
	if !ok {
		c = &CategoryCount{}
		r.Counts[cat] = c
	}
	return c
}

// TotalIngested returns the number of new records across all categories.
func (r *IngestionReport) TotalIngested() int {
	total := 0
	for _, c := range r.Counts {
		total += c.Ingested
	}
	return total
}
