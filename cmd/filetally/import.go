package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/logging"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/snapshot"
	"github.com/michaelscutari/filetally/internal/source"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records into a new snapshot",
	Long: `Read records from a JSON file or by walking a directory, validate the
hierarchy and store records and subtree rollups in a SQLite snapshot.`,
	RunE: runImport,
}

var (
	importIn        string
	importDir       string
	importSample    bool
	importOut       string
	importRetention int
	importExclude   []string
	importMaxErrors int
	importMaxRecs   int
	importIndexMode string
	importBatchSize int
	importSQLiteTmp string
)

func init() {
	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "Record file to import (.json, .jsonl, .ndjson)")
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory to walk instead of a record file")
	importCmd.Flags().BoolVar(&importSample, "sample", false, "Import the built-in sample hierarchy")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "./data", "Output directory for snapshots")
	importCmd.Flags().IntVar(&importRetention, "retention", 5, "Number of snapshots to retain (0 = unlimited)")
	importCmd.Flags().StringSliceVarP(&importExclude, "exclude", "e", nil, "Regex patterns to exclude when walking (can be repeated)")
	importCmd.Flags().IntVar(&importMaxErrors, "max-errors", 0, "Stop walking after N errors (0 = unlimited)")
	importCmd.Flags().IntVar(&importMaxRecs, "max-records", 0, "Stop walking after N records (0 = unlimited)")
	importCmd.Flags().StringVar(&importIndexMode, "index-mode", "memory", "Index build mode: memory|disk|skip")
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", db.DefaultBatchSize, "Rows per write transaction")
	importCmd.Flags().StringVar(&importSQLiteTmp, "sqlite-tmp-dir", "", "Directory for SQLite temp files during index build")
	importCmd.MarkFlagsMutuallyExclusive("in", "dir", "sample")
	importCmd.MarkFlagsOneRequired("in", "dir", "sample")
}

func runImport(cmd *cobra.Command, args []string) error {
	switch importIndexMode {
	case "memory", "disk", "skip":
	default:
		return fmt.Errorf("invalid index mode %q (expected memory|disk|skip)", importIndexMode)
	}

	outDir, err := filepath.Abs(importOut)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	records, sourceName, err := importRecords(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Import canceled.")
			return nil
		}
		return err
	}

	mgr := snapshot.NewManager(outDir, importRetention)
	mgr.SetIndexMode(importIndexMode)
	mgr.SetBatchSize(importBatchSize)
	if importSQLiteTmp != "" {
		mgr.SetSQLiteTmpDir(importSQLiteTmp)
	}

	startTime := time.Now()
	var written, total, bytes int64
	var stage atomic.Value
	stage.Store("build")

	mgr.SetProgressFunc(func(p db.Progress, n int64) {
		atomic.StoreInt64(&written, p.Records)
		atomic.StoreInt64(&total, n)
		atomic.StoreInt64(&bytes, p.TotalBytes)
	})
	mgr.SetStageFunc(func(s string) {
		if s != "" {
			stage.Store(s)
		}
	})

	isTTY := isTerminal()
	progressDone := make(chan struct{})
	go func() {
		if !isTTY {
			return
		}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		spinnerIdx := 0
		for {
			select {
			case <-progressDone:
				return
			case <-ticker.C:
				stageStr, _ := stage.Load().(string)
				elapsed := time.Since(startTime).Round(time.Millisecond)
				spinner := spinnerFrames[spinnerIdx%len(spinnerFrames)]
				spinnerIdx++
				if stageStr == "ingest" {
					fmt.Fprintf(os.Stderr, "\r\033[K%s Writing... %s/%s records | %s | %s",
						spinner,
						humanize.Comma(atomic.LoadInt64(&written)),
						humanize.Comma(atomic.LoadInt64(&total)),
						humanize.Bytes(uint64(atomic.LoadInt64(&bytes))),
						elapsed)
				} else {
					fmt.Fprintf(os.Stderr, "\r\033[K%s %s... | %s", spinner, stageStr, elapsed)
				}
			}
		}
	}()

	dbPath, err := mgr.RunImport(ctx, records, sourceName)
	close(progressDone)
	if isTTY {
		fmt.Fprintf(os.Stderr, "\r\033[K")
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Import canceled.")
			return nil
		}
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Database: %s\n", dbPath)
	fmt.Printf("Import completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	database, err := snapshot.Open(dbPath)
	if err != nil {
		return nil // Non-fatal
	}
	defer database.Close()

	meta, err := db.GetLoadMeta(database)
	if err != nil {
		return nil
	}
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Records:    %s\n", humanize.Comma(meta.RecordCount))
	fmt.Printf("  Leaves:     %s\n", humanize.Comma(meta.LeafCount))
	fmt.Printf("  Categories: %s\n", humanize.Comma(meta.CategoryCount))
	fmt.Printf("  Total size: %s\n", humanize.Bytes(uint64(meta.TotalSize)))
	if meta.RecordCount > 0 {
		fmt.Printf("  Largest:    #%d (%s)\n", meta.LargestID, humanize.Bytes(uint64(meta.LargestSize)))
	}
	return nil
}

// importRecords resolves the record source selected by flags and returns the
// records with a label stored in the snapshot metadata.
func importRecords(ctx context.Context) ([]record.FileRecord, string, error) {
	switch {
	case importSample:
		return source.Sample(), "sample", nil

	case importIn != "":
		records, err := source.Open(importIn)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(importIn)
		if err != nil {
			abs = importIn
		}
		return records, abs, nil
	}

	root, err := filepath.Abs(importDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve root path: %w", err)
	}

	opts := source.DefaultOptions().
		WithMaxErrors(importMaxErrors).
		WithMaxRecords(importMaxRecs)
	for _, pattern := range importExclude {
		if err := opts.AddExcludePattern(pattern); err != nil {
			return nil, "", fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	fmt.Printf("Walking %s...\n", root)
	res, err := source.WalkDir(ctx, root, opts)
	if err != nil {
		return nil, "", err
	}
	for _, pe := range res.Errors {
		logging.L().Warn("walk error", zap.String("path", pe.Path), zap.String("error", pe.Message))
	}
	if res.Truncated {
		logging.L().Warn("walk truncated", zap.Int("max_records", importMaxRecs))
	}
	return res.Records, res.Root, nil
}

func isTerminal() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
