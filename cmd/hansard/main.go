package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:   "hansard",
		Short: "Harvest Tasmanian Parliament Hansard transcripts and digest them by keyword",
	}

	root.AddCommand(scanCMD(), fetchCMD(), digestCMD(), searchCMD(), watchCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is the base context for every command: Ctrl-C or SIGTERM
// cancels the run.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
