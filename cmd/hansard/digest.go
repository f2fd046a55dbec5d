package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/digest"
	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/keywords"
	"github.com/parlwatch/hansard/internal/manifest"
)

func digestCMD() *cobra.Command {
	var cfgPath string
	var radius int
	var dig = &cobra.Command{
		Use:   "digest [transcript files...]",
		Short: "Generate the keyword digest for transcript files (default: last run's new files)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("radius") {
				cfg.Digest.Radius = radius
			}

			paths := args
			if len(paths) == 0 {
				m, err := manifest.Read(cfg.Storage.ManifestFile)
				if err != nil {
					return fmt.Errorf("no files given and no previous run manifest: %w", err)
				}
				for _, c := range hansard.Chambers {
					for _, p := range m.NewByChamber[c.String()] {
						paths = append(paths, filepath.Join(cfg.Storage.TranscriptsDir(), p))
					}
				}
				if len(paths) == 0 {
					fmt.Println("Last run saved no new transcripts.")
					return nil
				}
			}

			docs := make([]hansard.SavedDocument, 0, len(paths))
			for _, p := range paths {
				raw, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				text := string(raw)
				title := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
				docs = append(docs, hansard.SavedDocument{
					Chamber: hansard.Classify(title + "\n" + text),
					Title:   title,
					ID:      title,
					Path:    p,
					Text:    text,
				})
			}

			kws := keywords.Load(cfg.Digest.KeywordsFile, cfg.Digest.Keywords)
			dg := digest.Build(docs, kws, digest.Options{
				Radius:     cfg.Digest.Radius,
				MaxMatches: cfg.Digest.MaxMatches,
			})
			fmt.Print(dg.Render())
			return nil
		},
	}
	dig.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	dig.Flags().IntVar(&radius, "radius", 0, "paragraphs of context around each match")
	return dig
}
