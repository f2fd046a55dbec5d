// Package harvest contains the acquisition pipeline: paginate the search
// results, download transcripts that have not been seen before, classify
// them by chamber and file them on disk.
package harvest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/manifest"
	"github.com/parlwatch/hansard/internal/seenindex"
	"github.com/parlwatch/hansard/internal/session"
	"github.com/parlwatch/hansard/internal/telemetry"
)

// Harvester drives one acquisition run.
type Harvester struct {
	sess     session.Session
	store    *seenindex.Store
	root     string // transcripts root; chamber directories hang off it
	maxPages int
	metrics  *telemetry.Metrics
	logger   *log.Logger
}

// Result is what a run produced: the manifest plus the full documents, which
// the digest engine consumes. NewDocs holds only this run's documents —
// previously saved transcripts are never re-digested.
type Result struct {
	Manifest *manifest.RunManifest
	NewDocs  []hansard.SavedDocument
}

// New assembles a harvester. metrics may be nil.
func New(sess session.Session, store *seenindex.Store, root string, maxPages int, metrics *telemetry.Metrics, logger *log.Logger) *Harvester {
	if logger == nil {
		logger = log.New(log.Writer(), "[SCAN] ", log.LstdFlags)
	}
	return &Harvester{sess: sess, store: store, root: root, maxPages: maxPages, metrics: metrics, logger: logger}
}

// Run walks the result pages once. Per-candidate failures are logged and
// skipped; the candidate stays unrecorded so the next run retries it. The
// seen index is persisted exactly once, after traversal — a failure there is
// the only error Run returns, because losing the index means re-downloading
// everything next run.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	h.metrics.RunStarted()
	ix := h.store.Load()
	m := manifest.New()
	res := &Result{Manifest: m}

	pag := NewPaginator(h.sess, h.maxPages, h.logger)
	for {
		c, ok := pag.Next(ctx)
		if !ok {
			break
		}
		if ix.Seen(c.ID) {
			m.SkippedCount++
			h.metrics.CandidateSkipped()
			continue
		}

		doc, err := h.sess.FetchDocument(ctx, c)
		if err != nil {
			h.logger.Printf("fetch failed for %s (%q), will retry next run: %v", c.ID, c.Title, err)
			m.FailedCount++
			h.metrics.FetchFailed()
			continue
		}

		chamber := hansard.Classify(c.Title + "\n" + doc.Text)
		path := hansard.DestPath(h.root, chamber, c.Title, c.ID)
		if err := writeDocument(path, doc.Text); err != nil {
			h.logger.Printf("save failed for %s, will retry next run: %v", c.ID, err)
			m.FailedCount++
			continue
		}
		relPath, err := filepath.Rel(h.root, path)
		if err != nil {
			relPath = path
		}

		ix.Record(c.ID, relPath)
		m.Append(chamber, relPath)
		h.metrics.DocumentSaved(chamber)
		res.NewDocs = append(res.NewDocs, hansard.SavedDocument{
			Chamber: chamber,
			Title:   c.Title,
			ID:      c.ID,
			Path:    path,
			Text:    doc.Text,
		})
		h.logger.Printf("saved %s -> %s", c.ID, relPath)
	}

	if err := h.store.Persist(ix); err != nil {
		return nil, fmt.Errorf("persisting seen index: %w", err)
	}
	m.Finish()

	h.logger.Printf("run complete: %d new (assembly %d, council %d, unclassified %d), %d skipped, %d failed",
		m.NewCount, m.CountFor(hansard.Assembly), m.CountFor(hansard.Council), m.CountFor(hansard.Unclassified),
		m.SkippedCount, m.FailedCount)
	return res, nil
}

func writeDocument(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
