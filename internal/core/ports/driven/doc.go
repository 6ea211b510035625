// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the remote API, the document store, the
// text extractor and the summarisation model.
package driven
