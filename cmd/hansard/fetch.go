package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/session"
	browser "github.com/parlwatch/hansard/internal/session/chromedp"
)

func fetchCMD() *cobra.Command {
	var cfgPath string
	var fetch = &cobra.Command{
		Use:   "fetch \"<search query>\"",
		Short: "Download a single transcript matching a search query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			logger := log.New(log.Writer(), "[FETCH] ", log.LstdFlags)

			sess, err := browser.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("starting browser session: %w", err)
			}
			defer sess.Close()

			doc, err := sess.SearchAndFetch(ctx, args[0])
			if errors.Is(err, session.ErrNoResults) {
				return fmt.Errorf("no results for %q", args[0])
			}
			if err != nil {
				return err
			}

			title := doc.Candidate.Title
			chamber := hansard.Classify(title + "\n" + doc.Text)
			path := hansard.DestPath(cfg.Storage.TranscriptsDir(), chamber, title, doc.Candidate.ID)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(doc.Text), 0o644); err != nil {
				return err
			}
			logger.Printf("saved to %s", path)
			return nil
		},
	}
	fetch.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	return fetch
}
