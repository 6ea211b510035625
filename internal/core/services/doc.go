// Package services implements the application core: the pagination
// walker, the source-of-truth resolver, the dedup ledger, the ingestion
// orchestrator, and read-side search and summarisation over the corpus.
package services
