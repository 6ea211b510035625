// Package domain contains the core entities of the ingestion pipeline:
// document records, listing entries, fragments, ingestion reports and the
// party-attribution rules. It has no dependencies on adapters or services.
package domain
