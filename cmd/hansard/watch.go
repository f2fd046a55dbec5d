package main

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/parlwatch/hansard/config"
	"github.com/parlwatch/hansard/internal/schedule"
	"github.com/parlwatch/hansard/internal/server"
	"github.com/parlwatch/hansard/internal/telemetry"
)

func watchCMD() *cobra.Command {
	var cfgPath string
	var watch = &cobra.Command{
		Use:   "watch",
		Short: "Run scans on a schedule and serve the status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			sched, err := schedule.Parse(cfg.Watch.Schedule)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			logger := log.New(log.Writer(), "[WATCH] ", log.LstdFlags)
			metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

			srv := server.New(cfg.Server.Address, cfg.Storage.ManifestFile, nil)
			go func() {
				if err := srv.Start(ctx); err != nil {
					logger.Printf("status API stopped: %v", err)
				}
			}()

			// First scan fires immediately; afterwards the schedule rules.
			for {
				if _, err := runScan(ctx, cfg, metrics, true); err != nil {
					logger.Printf("scan failed: %v", err)
				}
				next := sched.Next(time.Now())
				logger.Printf("next scan at %s", next.Format(time.RFC3339))
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Until(next)):
				}
			}
		},
	}
	watch.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	return watch
}
