package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/michaelscutari/filetally/internal/record"
)

const insertRecordSQL = `INSERT INTO records (id, seq, name, parent_id, size) VALUES (?, ?, ?, ?, ?)`
const insertCategorySQL = `INSERT INTO record_categories (record_id, position, category) VALUES (?, ?, ?)`
const insertRollupSQL = `INSERT OR REPLACE INTO rollups (record_id, total_size, descendants, depth) VALUES (?, ?, ?, ?)`

// DefaultBatchSize is the number of rows written per transaction.
const DefaultBatchSize = 10000

// Ingester writes records and rollups in batched transactions.
type Ingester struct {
	db        *sql.DB
	batchSize int

	// Progress tracking (atomic)
	recordCount   int64
	categoryCount int64
	rollupCount   int64
	totalBytes    int64
}

// Progress holds current ingest progress.
type Progress struct {
	Records    int64
	Categories int64
	Rollups    int64
	TotalBytes int64
}

// NewIngester creates a new ingester. A non-positive batchSize uses
// DefaultBatchSize.
func NewIngester(db *sql.DB, batchSize int) *Ingester {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Ingester{
		db:        db,
		batchSize: batchSize,
	}
}

// WriteRecords stores records and their categories, preserving input order
// in the seq column.
func (ing *Ingester) WriteRecords(ctx context.Context, records []record.FileRecord) error {
	return ing.inBatches(ctx, len(records), func(tx *sql.Tx, start, end int) error {
		recStmt, err := tx.Prepare(insertRecordSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare record statement: %w", err)
		}
		defer recStmt.Close()

		catStmt, err := tx.Prepare(insertCategorySQL)
		if err != nil {
			return fmt.Errorf("failed to prepare category statement: %w", err)
		}
		defer catStmt.Close()

		for seq := start; seq < end; seq++ {
			r := records[seq]
			var parent any
			if pid, ok := r.Parent.ID(); ok {
				parent = pid
			}
			if _, err := recStmt.Exec(r.ID, seq, r.Name, parent, r.Size); err != nil {
				return fmt.Errorf("failed to insert record %d: %w", r.ID, err)
			}
			for pos, c := range r.Categories {
				if _, err := catStmt.Exec(r.ID, pos, c); err != nil {
					return fmt.Errorf("failed to insert category %q for record %d: %w", c, r.ID, err)
				}
			}
			atomic.AddInt64(&ing.recordCount, 1)
			atomic.AddInt64(&ing.categoryCount, int64(len(r.Categories)))
			atomic.AddInt64(&ing.totalBytes, r.Size)
		}
		return nil
	})
}

// WriteRollups stores precomputed subtree totals.
func (ing *Ingester) WriteRollups(ctx context.Context, rollups []record.Rollup) error {
	return ing.inBatches(ctx, len(rollups), func(tx *sql.Tx, start, end int) error {
		stmt, err := tx.Prepare(insertRollupSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare rollup statement: %w", err)
		}
		defer stmt.Close()

		for _, r := range rollups[start:end] {
			if _, err := stmt.Exec(r.RecordID, r.TotalSize, r.Descendants, r.Depth); err != nil {
				return fmt.Errorf("failed to insert rollup %d: %w", r.RecordID, err)
			}
			atomic.AddInt64(&ing.rollupCount, 1)
		}
		return nil
	})
}

// inBatches runs fn over [0, n) in chunks of batchSize, one transaction each.
func (ing *Ingester) inBatches(ctx context.Context, n int, fn func(tx *sql.Tx, start, end int) error) error {
	for start := 0; start < n; start += ing.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+ing.batchSize, n)

		tx, err := ing.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := fn(tx, start, end); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	return nil
}

// Progress returns current ingest progress (safe for concurrent access).
func (ing *Ingester) Progress() Progress {
	return Progress{
		Records:    atomic.LoadInt64(&ing.recordCount),
		Categories: atomic.LoadInt64(&ing.categoryCount),
		Rollups:    atomic.LoadInt64(&ing.rollupCount),
		TotalBytes: atomic.LoadInt64(&ing.totalBytes),
	}
}

// WriteLoadMeta stores the single load_meta row, replacing any previous one.
func WriteLoadMeta(db *sql.DB, m record.LoadMeta) error {
	var endTime any
	if !m.EndTime.IsZero() {
		endTime = m.EndTime.Unix()
	}
	var largestID any
	if m.RecordCount > 0 {
		largestID = m.LargestID
	}
	_, err := db.Exec(`
		INSERT OR REPLACE INTO load_meta
		    (id, load_id, source, start_time, end_time, record_count, leaf_count, category_count, total_size, largest_id, largest_size)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.LoadID, m.Source, m.StartTime.Unix(), endTime, m.RecordCount, m.LeafCount, m.CategoryCount, m.TotalSize, largestID, m.LargestSize)
	if err != nil {
		return fmt.Errorf("failed to write load metadata: %w", err)
	}
	return nil
}
