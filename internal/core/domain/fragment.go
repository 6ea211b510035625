package domain

import (
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Chunking policy. The backing stores cap per-record size, so oversized
// body text is split: the first fragment stays inline on the Record and
// the rest become indexed sub-records keyed by (parent, index).
const (
	// ChunkThreshold is the body size in bytes above which a record is chunked.
	ChunkThreshold = 100 * 1024

	// FragmentSize is the size in bytes of each stored fragment.
	FragmentSize = 64 * 1024
)

// Fragment is one ordered piece of an oversized body text.
// Index 0 is stored inline on the parent Record; sub-record fragments
// start at index 1. Concatenating the inline text with the sub-record
// fragments in ascending index order reconstructs the body exactly.
type Fragment struct {
	// ID is the fragment's own identifier.
	ID string

	// ParentID is the Record.ID the fragment belongs to.
	ParentID string

	// Index is the ordinal position, starting at 1 for sub-records.
	Index int

	// Text is the fragment content.
	Text string
}

// SplitBody applies the chunking policy to a record.
// When the body exceeds ChunkThreshold the record keeps roughly the
// first FragmentSize bytes inline, is flagged Chunked, and the trailing
// fragments are returned for storage as sub-records. Records at or
// below the threshold are left untouched and nil is returned.
//
// Every cut is backed off to the previous rune boundary so each
// fragment is valid UTF-8 on its own. Fragments pass through JSON
// serialisation in the file store, which silently rewrites invalid
// UTF-8; a multi-byte character split across two fragments would not
// survive a flush and reload.
func SplitBody(rec *Record) []Fragment {
	body := rec.BodyText
	if len(body) <= ChunkThreshold {
		return nil
	}

	cut := cutPoint(body, FragmentSize)
	rec.BodyText = body[:cut]
	rec.Chunked = true

	var fragments []Fragment
	index := 1
	for start := cut; start < len(body); {
		end := cutPoint(body, start+FragmentSize)
		fragments = append(fragments, Fragment{
			ID:       uuid.New().String(),
			ParentID: rec.ID,
			Index:    index,
			Text:     body[start:end],
		})
		start = end
		index++
	}
	return fragments
}

// cutPoint backs a byte offset off to the previous rune boundary.
func cutPoint(body string, target int) int {
	if target >= len(body) {
		return len(body)
	}
	for target > 0 && !utf8.RuneStart(body[target]) {
		target--
	}
	return target
}

// ReconstructBody rebuilds the full body text of a record from its
// inline text and sub-record fragments. The fragments are sorted by
// ascending index first since storage order is not guaranteed to match
// write order. A gap in the sequence means trailing fragments are not
// yet available; the contiguous prefix is returned rather than failing.
func ReconstructBody(rec *Record, fragments []Fragment) string {
	if !rec.Chunked || len(fragments) == 0 {
		return rec.BodyText
	}

	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	body := rec.BodyText
	next := 1
	for _, f := range sorted {
		if f.Index != next {
			break
		}
		body += f.Text
		next++
	}
	return body
}
