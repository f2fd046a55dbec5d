package harvest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/seenindex"
)

const (
	assemblyText = "House of Assembly\n\nMR SMITH: The budget is strong."
	councilText  = "Legislative Council\n\nMS JONES: I move the amendment."
)

func newStore(t *testing.T) (*seenindex.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return seenindex.NewStore(filepath.Join(dir, "seen.json"), quietLogger()), dir
}

func TestRunSkipsSeenAndRecordsNew(t *testing.T) {
	store, dir := newStore(t)

	seeded := seenindex.NewIndex()
	seeded.Record("D1", "assembly/old.txt")
	if err := store.Persist(seeded); err != nil {
		t.Fatal(err)
	}

	sess := &fakeSession{
		pages: [][]hansard.Candidate{
			{cand("D1"), cand("D2")},
			{cand("D3")},
		},
		texts: map[string]string{"D2": assemblyText, "D3": councilText},
	}
	h := New(sess, store, filepath.Join(dir, "transcripts"), 5, nil, quietLogger())

	res, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sess.fetched) != 2 || sess.fetched[0] != "D2" || sess.fetched[1] != "D3" {
		t.Fatalf("expected fetches for D2 and D3 only, got %v", sess.fetched)
	}
	m := res.Manifest
	if m.NewCount != 2 || m.SkippedCount != 1 || m.FailedCount != 0 {
		t.Fatalf("manifest counts wrong: new=%d skipped=%d failed=%d", m.NewCount, m.SkippedCount, m.FailedCount)
	}
	if m.CountFor(hansard.Assembly) != 1 || m.CountFor(hansard.Council) != 1 {
		t.Fatalf("chamber routing wrong: %+v", m.NewByChamber)
	}

	ix := store.Load()
	for _, id := range []string{"D1", "D2", "D3"} {
		if !ix.Seen(id) {
			t.Fatalf("identifier %s missing from persisted index", id)
		}
	}

	for _, doc := range res.NewDocs {
		if _, err := os.Stat(doc.Path); err != nil {
			t.Fatalf("saved document missing on disk: %v", err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store, dir := newStore(t)
	pages := [][]hansard.Candidate{{cand("D1"), cand("D2")}}
	texts := map[string]string{"D1": assemblyText, "D2": councilText}
	root := filepath.Join(dir, "transcripts")

	first := &fakeSession{pages: pages, texts: texts}
	if _, err := New(first, store, root, 5, nil, quietLogger()).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := &fakeSession{pages: pages, texts: texts}
	res, err := New(second, store, root, 5, nil, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.fetched) != 0 {
		t.Fatalf("second run fetched already-seen documents: %v", second.fetched)
	}
	if res.Manifest.NewCount != 0 || res.Manifest.SkippedCount != 2 {
		t.Fatalf("second run counts wrong: %+v", res.Manifest)
	}
	if store.Load().Len() != 2 {
		t.Fatalf("index changed on idempotent rerun: %v", store.Load().IDs())
	}
}

func TestRunIsolatesFetchFailures(t *testing.T) {
	store, dir := newStore(t)
	sess := &fakeSession{
		pages:     [][]hansard.Candidate{{cand("D1"), cand("D2")}},
		texts:     map[string]string{"D2": councilText},
		fetchErrs: map[string]error{"D1": errors.New("viewer timeout")},
	}
	res, err := New(sess, store, filepath.Join(dir, "t"), 5, nil, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should not fail on a candidate error: %v", err)
	}
	if res.Manifest.FailedCount != 1 || res.Manifest.NewCount != 1 {
		t.Fatalf("counts wrong: %+v", res.Manifest)
	}
	ix := store.Load()
	if ix.Seen("D1") {
		t.Fatal("failed candidate must stay unrecorded so the next run retries it")
	}
	if !ix.Seen("D2") {
		t.Fatal("successful candidate missing from index")
	}
}

func TestRunUnclassifiedRouting(t *testing.T) {
	store, dir := newStore(t)
	sess := &fakeSession{
		pages: [][]hansard.Candidate{{cand("D1")}},
		texts: map[string]string{"D1": "Estimates Committee B\n\nDiscussion follows."},
	}
	res, err := New(sess, store, filepath.Join(dir, "t"), 5, nil, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Manifest.CountFor(hansard.Unclassified) != 1 {
		t.Fatalf("expected unclassified routing, got %+v", res.Manifest.NewByChamber)
	}
	if res.NewDocs[0].Chamber != hansard.Unclassified {
		t.Fatalf("chamber = %v", res.NewDocs[0].Chamber)
	}
}

func TestRunFatalOnIndexPersistFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Index path nested under a regular file: MkdirAll at persist time fails.
	store := seenindex.NewStore(filepath.Join(blocker, "seen.json"), quietLogger())

	sess := &fakeSession{
		pages: [][]hansard.Candidate{{cand("D1")}},
		texts: map[string]string{"D1": assemblyText},
	}
	if _, err := New(sess, store, filepath.Join(dir, "t"), 5, nil, quietLogger()).Run(context.Background()); err == nil {
		t.Fatal("index persist failure must be fatal for the run")
	}
}
