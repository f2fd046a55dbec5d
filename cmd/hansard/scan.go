package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/archive"
	"github.com/parlwatch/hansard/internal/digest"
	"github.com/parlwatch/hansard/internal/harvest"
	"github.com/parlwatch/hansard/internal/keywords"
	"github.com/parlwatch/hansard/internal/manifest"
	"github.com/parlwatch/hansard/internal/notify"
	"github.com/parlwatch/hansard/internal/seenindex"
	browser "github.com/parlwatch/hansard/internal/session/chromedp"
	"github.com/parlwatch/hansard/internal/telemetry"
)

func scanCMD() *cobra.Command {
	var cfgPath string
	var noNotify bool
	var scan = &cobra.Command{
		Use:   "scan",
		Short: "Scan the search results for new transcripts and download them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			_, err = runScan(ctx, cfg, nil, !noNotify)
			return err
		},
	}
	scan.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	scan.Flags().BoolVar(&noNotify, "no-notify", false, "skip email delivery even when auto_notify is configured")
	return scan
}

// runScan performs one full acquisition run: harvest, digest, manifest,
// archive indexing and (optionally) notification. Only harvesting and
// manifest persistence can fail the run; digesting, archiving and delivery
// degrade to log lines because the downloaded transcripts are already
// durable by then.
func runScan(ctx context.Context, cfg config.Config, metrics *telemetry.Metrics, allowNotify bool) (*harvest.Result, error) {
	logger := log.New(log.Writer(), "[SCAN] ", log.LstdFlags)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	sess, err := browser.New(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("starting browser session: %w", err)
	}
	defer sess.Close()

	store := seenindex.NewStore(cfg.Storage.IndexFile, nil)
	h := harvest.New(sess, store, cfg.Storage.TranscriptsDir(), cfg.Search.MaxPages, metrics, logger)
	res, err := h.Run(ctx)
	if err != nil {
		return nil, err
	}
	m := res.Manifest

	kws := keywords.Load(cfg.Digest.KeywordsFile, cfg.Digest.Keywords)
	dg := digest.Build(res.NewDocs, kws, digest.Options{
		Radius:     cfg.Digest.Radius,
		MaxMatches: cfg.Digest.MaxMatches,
	})

	persistRunArtifacts(cfg, m, dg, logger)

	if len(res.NewDocs) > 0 {
		if ix, err := archive.Open(cfg.Storage.ArchiveDir); err != nil {
			logger.Printf("archive index unavailable: %v", err)
		} else {
			if err := ix.Add(res.NewDocs); err != nil {
				logger.Printf("archive indexing: %v", err)
			}
			ix.Close()
		}
	}

	if allowNotify && cfg.Email.AutoNotify {
		n := notify.New(notify.NewSMTPSender(cfg.Email), cfg.Storage.TranscriptsDir(), cfg.Email.Attach, nil)
		if err := n.Deliver(ctx, m, dg); err != nil {
			logger.Printf("notification failed (run results are already saved): %v", err)
		}
	}

	return res, nil
}

// persistRunArtifacts writes the digest artifact and the run manifest. Neither
// failure aborts the run: by this point the transcripts and the seen index are
// already durable, so losing a report costs a re-render at worst.
func persistRunArtifacts(cfg config.Config, m *manifest.RunManifest, dg digest.Digest, logger *log.Logger) {
	if m.NewCount > 0 {
		digestPath := filepath.Join(cfg.Storage.DataDir, "digest_"+m.RunID+".txt")
		if err := os.WriteFile(digestPath, []byte(dg.Render()), 0o644); err != nil {
			logger.Printf("writing digest artifact: %v", err)
		} else {
			m.DigestPath = digestPath
		}
	}
	if err := manifest.Write(cfg.Storage.ManifestFile, m); err != nil {
		logger.Printf("writing run manifest (transcripts and index already saved): %v", err)
	}
}
