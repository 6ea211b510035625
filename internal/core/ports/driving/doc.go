// Package driving provides interfaces for application entry points
// (primary/inbound ports): ingestion, search, reading and summarisation.
package driving
