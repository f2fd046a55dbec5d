// Package seenindex tracks which document identifiers have already been
// downloaded, so a scan never fetches the same transcript twice across runs.
package seenindex

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Index is the in-memory mapping of document identifier to the relative path
// the transcript was saved under. Entries are append-only: nothing ever
// mutates or removes a recorded identifier.
type Index struct {
	entries map[string]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]string)}
}

// Seen reports whether id has already been recorded.
func (ix *Index) Seen(id string) bool {
	_, ok := ix.entries[id]
	return ok
}

// Record adds id with its saved path. Recording an identifier that is
// already present is a no-op.
func (ix *Index) Record(id, relPath string) {
	if _, ok := ix.entries[id]; ok {
		return
	}
	ix.entries[id] = relPath
}

// Len returns the number of recorded identifiers.
func (ix *Index) Len() int { return len(ix.entries) }

// IDs returns every recorded identifier in sorted order.
func (ix *Index) IDs() []string {
	ids := make([]string, 0, len(ix.entries))
	for id := range ix.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store loads and persists the index file.
type Store struct {
	path   string
	logger *log.Logger
}

// NewStore returns a store backed by the JSON file at path.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Writer(), "[INDEX] ", log.LstdFlags)
	}
	return &Store{path: path, logger: logger}
}

// Load reads the persisted index. A missing or unreadable file yields an
// empty index: re-downloading a few transcripts is the accepted cost, losing
// the run is not.
func (s *Store) Load() *Index {
	ix := NewIndex()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("seen index unreadable, starting empty: %v", err)
		}
		return ix
	}
	if err := json.Unmarshal(raw, &ix.entries); err != nil {
		s.logger.Printf("seen index corrupt, starting empty: %v", err)
		ix.entries = make(map[string]string)
	}
	return ix
}

// Persist writes the full index atomically: the JSON is written to a temp
// file in the same directory and renamed over the target, so a crash can
// never leave a half-written index behind. Callers invoke this exactly once
// per run, after traversal completes.
func (s *Store) Persist(ix *Index) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	raw, err := json.MarshalIndent(ix.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen index: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp index file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing seen index: %w", err)
	}
	return nil
}
