// Package manifest records the outcome of an acquisition run. The manifest
// is written once at the end of a run and read-only afterwards; the notifier
// and the status API consume it.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/parlwatch/hansard/internal/hansard"
)

// RunManifest summarises one run: what was newly saved, per chamber, and
// where the digest landed. NewByChamber is keyed by the chamber short name.
type RunManifest struct {
	RunID        string              `json:"run_id"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
	NewCount     int                 `json:"new_count"`
	SkippedCount int                 `json:"skipped_count"`
	FailedCount  int                 `json:"failed_count"`
	NewByChamber map[string][]string `json:"new_by_chamber"`
	DigestPath   string              `json:"digest_path,omitempty"`
}

// New starts a manifest for a run beginning now.
func New() *RunManifest {
	return &RunManifest{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		NewByChamber: make(map[string][]string),
	}
}

// Append records a newly saved transcript path under its chamber.
func (m *RunManifest) Append(c hansard.Chamber, relPath string) {
	m.NewByChamber[c.String()] = append(m.NewByChamber[c.String()], relPath)
	m.NewCount++
}

// Finish stamps the completion time.
func (m *RunManifest) Finish() {
	m.FinishedAt = time.Now().UTC()
}

// CountFor returns how many new transcripts a chamber received.
func (m *RunManifest) CountFor(c hansard.Chamber) int {
	return len(m.NewByChamber[c.String()])
}

// Write persists the manifest as JSON via temp-file-and-rename, matching the
// seen index's atomic replace discipline.
func Write(path string, m *RunManifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

// Read loads a previously written manifest.
func Read(path string) (*RunManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m RunManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
