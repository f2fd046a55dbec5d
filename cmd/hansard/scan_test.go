package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/digest"
	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/manifest"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func runConfig(dir string) config.Config {
	var cfg config.Config
	cfg.Storage.DataDir = dir
	cfg.Storage.ManifestFile = filepath.Join(dir, "last_run.json")
	return cfg
}

func TestPersistRunArtifactsWritesManifestAndDigest(t *testing.T) {
	cfg := runConfig(t.TempDir())

	m := manifest.New()
	m.Append(hansard.Assembly, "assembly/a.txt")
	m.Finish()
	dg := digest.Build([]hansard.SavedDocument{
		{Chamber: hansard.Assembly, Title: "HA", Text: "The budget is strong."},
	}, []string{"budget"}, digest.Options{})

	persistRunArtifacts(cfg, m, dg, quietLogger())

	got, err := manifest.Read(cfg.Storage.ManifestFile)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if got.DigestPath == "" {
		t.Fatal("digest artifact path missing from manifest")
	}
	raw, err := os.ReadFile(got.DigestPath)
	if err != nil {
		t.Fatalf("digest artifact not written: %v", err)
	}
	if !strings.Contains(string(raw), "budget") {
		t.Fatalf("digest artifact content wrong:\n%s", raw)
	}
}

func TestPersistRunArtifactsSkipsDigestForEmptyRun(t *testing.T) {
	cfg := runConfig(t.TempDir())
	m := manifest.New()
	m.Finish()

	persistRunArtifacts(cfg, m, digest.Digest{}, quietLogger())

	got, err := manifest.Read(cfg.Storage.ManifestFile)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if got.DigestPath != "" {
		t.Fatalf("empty run should carry no digest artifact: %q", got.DigestPath)
	}
}

func TestPersistRunArtifactsToleratesManifestFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := runConfig(dir)
	// Manifest path nested under a regular file: the write cannot succeed.
	cfg.Storage.ManifestFile = filepath.Join(blocker, "last_run.json")

	m := manifest.New()
	m.Finish()

	// A manifest write failure is reporting, not acquisition: it must not
	// escalate past a log line.
	persistRunArtifacts(cfg, m, digest.Digest{}, quietLogger())
}
