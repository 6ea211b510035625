// Package file provides a filesystem-backed DocumentStore: one JSON
// array file per category, rewritten in full on every flush. Flush cost
// is O(total records) per category, which is acceptable for the data
// volumes in scope but a documented scalability ceiling; the sqlite
// store exists for larger corpora.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// fileRecord is the persisted element shape: the record plus its
// trailing fragments, kept together so one file per category holds the
// whole partition.
type fileRecord struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle,omitempty"`
	Published  string            `json:"published,omitempty"`
	Party      string            `json:"party"`
	Speaker    string            `json:"speaker,omitempty"`
	Decision   string            `json:"decision,omitempty"`
	BodyText   string            `json:"body_text"`
	SourceKind string            `json:"source_kind"`
	Chunked    bool              `json:"chunked,omitempty"`
	CreatedAt  string            `json:"created_at"`
	Fragments  []domain.Fragment `json:"fragments,omitempty"`
}

// Store keeps each category's records in memory and rewrites the
// category file atomically on Flush.
type Store struct {
	mu    sync.Mutex
	dir   string
	cache map[domain.Category]map[string]*fileRecord
	dirty map[domain.Category]bool
}

// NewStore opens the store rooted at dir, loading any existing
// category files.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		dir:   dir,
		cache: make(map[domain.Category]map[string]*fileRecord),
		dirty: make(map[domain.Category]bool),
	}
	for _, cat := range domain.AllCategories() {
		if err := s.load(cat); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// path returns the category's JSON file path.
func (s *Store) path(cat domain.Category) string {
	return filepath.Join(s.dir, cat.String()+"s.json")
}

// load reads one category file into the cache. A missing file means an
// empty partition.
func (s *Store) load(cat domain.Category) error {
	s.cache[cat] = make(map[string]*fileRecord)

	data, err := os.ReadFile(s.path(cat))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path(cat), err)
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse %s: %w", s.path(cat), err)
	}
	for i := range records {
		s.cache[cat][records[i].ID] = &records[i]
	}
	return nil
}

// SaveRecord stores or replaces a record in the cache. Durability
// comes from the next Flush.
func (s *Store) SaveRecord(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fr := &fileRecord{
		ID:         rec.ID,
		Category:   rec.Category.String(),
		Title:      rec.Title,
		Subtitle:   rec.Subtitle,
		Party:      rec.Party,
		Speaker:    rec.Speaker,
		Decision:   rec.Decision,
		BodyText:   rec.BodyText,
		SourceKind: rec.SourceKind.String(),
		Chunked:    rec.Chunked,
		CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if rec.Published != nil {
		fr.Published = rec.Published.Format("2006-01-02")
	}

	s.cache[rec.Category][rec.ID] = fr
	s.dirty[rec.Category] = true
	return nil
}

// SaveFragments attaches trailing fragments to their parent record.
func (s *Store) SaveFragments(_ context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := fragments[0].ParentID
	for cat, records := range s.cache {
		if fr, ok := records[parent]; ok {
			fr.Fragments = append(fr.Fragments, fragments...)
			s.dirty[cat] = true
			return nil
		}
	}
	return fmt.Errorf("fragments for unknown record %s: %w", parent, domain.ErrNotFound)
}

// GetRecord retrieves a record by category and id.
func (s *Store) GetRecord(_ context.Context, cat domain.Category, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fr, ok := s.cache[cat][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := fr.toRecord(cat)
	return &rec, nil
}

// ListFragments retrieves all fragments for a parent record.
func (s *Store) ListFragments(_ context.Context, parentID string) ([]domain.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, records := range s.cache {
		if fr, ok := records[parentID]; ok {
			fragments := make([]domain.Fragment, len(fr.Fragments))
			copy(fragments, fr.Fragments)
			return fragments, nil
		}
	}
	return nil, nil
}

// ListIDs returns every record identifier in a category.
func (s *Store) ListIDs(_ context.Context, cat domain.Category) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.cache[cat]))
	for id := range s.cache[cat] {
		ids = append(ids, id)
	}
	return ids, nil
}

// ListRecords returns every record in a category.
func (s *Store) ListRecords(_ context.Context, cat domain.Category) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.Record, 0, len(s.cache[cat]))
	for _, fr := range s.cache[cat] {
		records = append(records, fr.toRecord(cat))
	}
	return records, nil
}

// Flush rewrites every dirty category file. The write goes to a
// temporary file first and is renamed into place so an interrupted
// flush never corrupts the previous state.
func (s *Store) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for cat, dirty := range s.dirty {
		if !dirty {
			continue
		}
		if err := s.writeCategory(cat); err != nil {
			return err
		}
		s.dirty[cat] = false
	}
	return nil
}

// writeCategory serialises one category to its file.
func (s *Store) writeCategory(cat domain.Category) error {
	records := make([]*fileRecord, 0, len(s.cache[cat]))
	for _, fr := range s.cache[cat] {
		records = append(records, fr)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", cat, err)
	}

	path := s.path(cat)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Close flushes outstanding writes.
func (s *Store) Close() error {
	return s.Flush(context.Background())
}

// toRecord converts the persisted shape back to the domain record.
func (fr *fileRecord) toRecord(cat domain.Category) domain.Record {
	rec := domain.Record{
		ID:         fr.ID,
		Category:   cat,
		Title:      fr.Title,
		Subtitle:   fr.Subtitle,
		Published:  domain.ParsePublished(fr.Published),
		Party:      fr.Party,
		Speaker:    fr.Speaker,
		Decision:   fr.Decision,
		BodyText:   fr.BodyText,
		SourceKind: domain.ParseSourceKind(fr.SourceKind),
		Chunked:    fr.Chunked,
	}
	if t := domain.ParsePublished(fr.CreatedAt); t != nil {
		rec.CreatedAt = *t
	}
	return rec
}
