package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/archive"
)

func searchCMD() *cobra.Command {
	var cfgPath string
	var limit int
	var search = &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over the downloaded transcript archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ix, err := archive.Open(cfg.Storage.ArchiveDir)
			if err != nil {
				return err
			}
			defer ix.Close()

			hits, err := ix.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for i, h := range hits {
				fmt.Printf("%2d. [%s] %s (%.2f)\n    %s\n", i+1, h.Chamber, h.Title, h.Score, h.Path)
			}
			return nil
		},
	}
	search.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	search.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results")
	return search
}
