// Package archive maintains a full-text index over every saved transcript,
// so the collection stays searchable locally without re-reading the files.
package archive

import (
	"fmt"

	"github.com/blevesearch/bleve"

	"github.com/parlwatch/hansard/internal/hansard"
)

// indexedDoc is the shape stored in the index.
type indexedDoc struct {
	Title   string `json:"title"`
	Chamber string `json:"chamber"`
	Path    string `json:"path"`
	Text    string `json:"text"`
}

// Hit is one search result.
type Hit struct {
	ID      string
	Title   string
	Chamber string
	Path    string
	Score   float64
}

// Index wraps the bleve index on disk.
type Index struct {
	idx bleve.Index
}

// Open opens the index at path, creating it on first use.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Add indexes a run's newly saved transcripts. Re-adding an identifier
// replaces its entry, so calling this with already-indexed documents is
// harmless.
func (ix *Index) Add(docs []hansard.SavedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	batch := ix.idx.NewBatch()
	for _, doc := range docs {
		entry := indexedDoc{
			Title:   doc.Title,
			Chamber: doc.Chamber.String(),
			Path:    doc.Path,
			Text:    doc.Text,
		}
		if err := batch.Index(doc.ID, entry); err != nil {
			return fmt.Errorf("indexing %s: %w", doc.ID, err)
		}
	}
	if err := ix.idx.Batch(batch); err != nil {
		return fmt.Errorf("writing archive batch: %w", err)
	}
	return nil
}

// Search runs a match query over the archive and returns up to limit hits.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, 0, false)
	req.Fields = []string{"title", "chamber", "path"}
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["chamber"].(string); ok {
			hit.Chamber = v
		}
		if v, ok := h.Fields["path"].(string); ok {
			hit.Path = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns how many transcripts are indexed.
func (ix *Index) Count() (uint64, error) {
	return ix.idx.DocCount()
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}
