package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelscutari/filetally/internal/aggregate"
	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/logging"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/tree"

	_ "modernc.org/sqlite"
)

const (
	snapshotPrefix = "filetally-"
	snapshotSuffix = ".db"
	latestName     = "latest.db"
	lockName       = ".filetally.lock"
)

// ProgressFunc is called periodically with current ingest progress.
type ProgressFunc func(p db.Progress, total int64)

// StageFunc is called when the import stage changes.
type StageFunc func(stage string)

// Manager handles the import lifecycle including locking and retention.
type Manager struct {
	outputDir    string
	retention    int
	batchSize    int
	lockFile     *os.File
	progressFunc ProgressFunc
	stageFunc    StageFunc
	indexMode    string
	sqliteTmpDir string
	now          func() time.Time
}

// NewManager creates a new snapshot manager.
func NewManager(outputDir string, retention int) *Manager {
	return &Manager{
		outputDir: outputDir,
		retention: retention,
		indexMode: "memory",
		now:       time.Now,
	}
}

// SetProgressFunc sets a callback for progress updates during ingest.
func (m *Manager) SetProgressFunc(f ProgressFunc) {
	m.progressFunc = f
}

// SetStageFunc sets a callback for stage updates.
func (m *Manager) SetStageFunc(f StageFunc) {
	m.stageFunc = f
}

// SetIndexMode sets the index build mode: memory|disk|skip.
func (m *Manager) SetIndexMode(mode string) {
	m.indexMode = mode
}

// SetSQLiteTmpDir sets the temp directory for SQLite during index build.
func (m *Manager) SetSQLiteTmpDir(dir string) {
	m.sqliteTmpDir = dir
}

// SetBatchSize sets the number of rows per write transaction.
func (m *Manager) SetBatchSize(n int) {
	m.batchSize = n
}

func (m *Manager) stage(s string) {
	logging.L().Debug("import stage", zap.String("stage", s))
	if m.stageFunc != nil {
		m.stageFunc(s)
	}
}

// RunImport validates records, computes rollups and writes a new snapshot.
// Nothing is written when the hierarchy is invalid.
func (m *Manager) RunImport(ctx context.Context, records []record.FileRecord, source string) (string, error) {
	startTime := m.now()

	m.stage("build")
	t, err := tree.Build(records)
	if err != nil {
		return "", fmt.Errorf("invalid hierarchy: %w", err)
	}
	rollups := aggregate.Rollups(t)

	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := m.acquireLock(); err != nil {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer m.releaseLock()

	tempPath := filepath.Join(m.outputDir, fmt.Sprintf(".filetally-temp-%d.db", startTime.UnixNano()))
	database, err := sql.Open("sqlite", tempPath)
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to create database: %w", err)
	}
	database.SetMaxOpenConns(1)
	fail := func(format string, err error) (string, error) {
		database.Close()
		os.Remove(tempPath)
		os.Remove(tempPath + "-wal")
		os.Remove(tempPath + "-shm")
		return "", fmt.Errorf(format, err)
	}

	if err := db.InitSchema(database); err != nil {
		return fail("failed to initialize schema: %w", err)
	}
	if err := db.ApplyWritePragmas(database); err != nil {
		return fail("failed to apply pragmas: %w", err)
	}

	m.stage("ingest")
	ing := db.NewIngester(database, m.batchSize)
	progressDone := make(chan struct{})
	if m.progressFunc != nil {
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-progressDone:
					return
				case <-ticker.C:
					m.progressFunc(ing.Progress(), int64(len(records)))
				}
			}
		}()
	}
	ingestErr := ing.WriteRecords(ctx, records)
	if ingestErr == nil {
		m.stage("rollups")
		ingestErr = ing.WriteRollups(ctx, rollups)
	}
	close(progressDone)
	if ingestErr != nil {
		return fail("ingest failed: %w", ingestErr)
	}
	if m.progressFunc != nil {
		m.progressFunc(ing.Progress(), int64(len(records)))
	}

	meta := buildMeta(t, records, rollups, source, startTime)
	meta.EndTime = m.now()
	if err := db.WriteLoadMeta(database, meta); err != nil {
		return fail("%w", err)
	}

	if m.indexMode != "skip" {
		m.stage("indexes")
		if err := db.ApplyIndexPragmas(database, m.indexMode == "disk", m.sqliteTmpDir); err != nil {
			return fail("failed to apply index pragmas: %w", err)
		}
		if err := db.BuildIndexes(database); err != nil {
			return fail("failed to build indexes: %w", err)
		}
	}

	m.stage("finalize")
	if err := db.Finalize(database); err != nil {
		return fail("failed to finalize database: %w", err)
	}

	database.Close()

	finalName := snapshotPrefix + startTime.Format("20060102-150405") + snapshotSuffix
	finalPath := filepath.Join(m.outputDir, finalName)

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename database: %w", err)
	}

	// Replace latest.db via temp symlink + rename so readers never see it missing
	latestPath := filepath.Join(m.outputDir, latestName)
	tempLink := filepath.Join(m.outputDir, ".latest.db.tmp")
	os.Remove(tempLink)
	if err := os.Symlink(finalName, tempLink); err == nil {
		if err := os.Rename(tempLink, latestPath); err != nil {
			os.Remove(tempLink)
			logging.L().Warn("failed to update latest.db symlink", zap.Error(err))
		}
	} else {
		logging.L().Warn("failed to create latest.db symlink", zap.Error(err))
	}

	if err := m.pruneOldSnapshots(); err != nil {
		logging.L().Warn("failed to prune old snapshots", zap.Error(err))
	}

	logging.L().Info("import complete",
		zap.String("path", finalPath),
		zap.String("load_id", meta.LoadID),
		zap.Int64("records", meta.RecordCount),
	)
	return finalPath, nil
}

func buildMeta(t *tree.Tree, records []record.FileRecord, rollups []record.Rollup, source string, start time.Time) record.LoadMeta {
	meta := record.LoadMeta{
		LoadID:        uuid.NewString(),
		Source:        source,
		StartTime:     start,
		RecordCount:   int64(len(records)),
		LeafCount:     int64(len(aggregate.LeafNames(t))),
		CategoryCount: int64(len(aggregate.RankCategories(records))),
	}
	for _, r := range records {
		meta.TotalSize += r.Size
	}
	if best, ok := aggregate.Largest(rollups); ok {
		meta.LargestID = best.RecordID
		meta.LargestSize = best.TotalSize
	}
	return meta
}

func (m *Manager) acquireLock() error {
	lockPath := filepath.Join(m.outputDir, lockName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return fmt.Errorf("another import is in progress")
	}

	m.lockFile = f
	return nil
}

func (m *Manager) releaseLock() {
	if m.lockFile != nil {
		syscall.Flock(int(m.lockFile.Fd()), syscall.LOCK_UN)
		m.lockFile.Close()
		m.lockFile = nil
	}
}

func isSnapshotName(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotSuffix)
}

func (m *Manager) pruneOldSnapshots() error {
	if m.retention <= 0 {
		return nil
	}

	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return err
	}

	var snapshots []string
	for _, e := range entries {
		if !e.IsDir() && isSnapshotName(e.Name()) {
			snapshots = append(snapshots, e.Name())
		}
	}

	// Names embed the timestamp, so lexical order is chronological
	sort.Strings(snapshots)

	for len(snapshots) > m.retention {
		oldPath := filepath.Join(m.outputDir, snapshots[0])
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", snapshots[0], err)
		}
		snapshots = snapshots[1:]
	}

	return nil
}

// GetLatest returns the path to the latest snapshot.
func (m *Manager) GetLatest() (string, error) {
	latestPath := filepath.Join(m.outputDir, latestName)
	resolved, err := filepath.EvalSymlinks(latestPath)
	if err != nil {
		return "", fmt.Errorf("no latest snapshot found: %w", err)
	}
	return resolved, nil
}

// ListSnapshots returns all available snapshots sorted by date.
func (m *Manager) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, err
	}

	var snapshots []string
	for _, e := range entries {
		if !e.IsDir() && isSnapshotName(e.Name()) {
			snapshots = append(snapshots, filepath.Join(m.outputDir, e.Name()))
		}
	}

	sort.Strings(snapshots)
	return snapshots, nil
}

// Open opens a snapshot read-only.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot not found: %w", err)
	}
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; keep a single one so they stick.
	database.SetMaxOpenConns(1)
	if err := db.ApplyReadPragmas(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	return database, nil
}
