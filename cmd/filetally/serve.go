package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve aggregates over HTTP",
	Long: `Load records once and serve leaves, category rankings, the largest
subtree and per-record rollups as JSON, with Prometheus metrics.`,
	RunE: runServe,
}

var (
	serveSrc  recordFlags
	serveAddr string
)

func init() {
	serveSrc.register(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	records, err := serveSrc.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving %d records on %s\n", len(records), serveAddr)
	if err := api.NewServer(serveAddr, records).Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
