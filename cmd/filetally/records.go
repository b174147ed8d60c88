package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/logging"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/snapshot"
	"github.com/michaelscutari/filetally/internal/source"
)

const defaultDB = "./data/latest.db"

// recordFlags selects where an aggregate command reads its records from.
type recordFlags struct {
	db     string
	in     string
	sample bool
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.db, "db", "d", defaultDB, "Path to snapshot database")
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "Read records from a .json/.jsonl file instead of a snapshot")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "Use the built-in sample hierarchy")
	cmd.MarkFlagsMutuallyExclusive("in", "sample")
}

func (f *recordFlags) load() ([]record.FileRecord, error) {
	switch {
	case f.sample:
		return source.Sample(), nil
	case f.in != "":
		records, err := source.Open(f.in)
		if err != nil {
			return nil, err
		}
		logging.L().Debug("decoded records", zap.String("path", f.in), zap.Int("count", len(records)))
		return records, nil
	}

	database, err := snapshot.Open(f.db)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	records, err := db.LoadRecords(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	logging.L().Debug("loaded snapshot", zap.String("path", f.db), zap.Int("count", len(records)))
	return records, nil
}
