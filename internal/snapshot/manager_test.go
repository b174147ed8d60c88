package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/source"
	"github.com/michaelscutari/filetally/internal/tree"
)

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[min(i, len(times)-1)]
		i++
		return t
	}
}

func TestManagerRunImportCreatesLatestAndRetention(t *testing.T) {
	outDir := t.TempDir()
	mgr := NewManager(outDir, 1)
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	second := first.Add(time.Minute)
	mgr.now = fixedClock(first, first, second, second)

	var stages []string
	mgr.SetStageFunc(func(s string) { stages = append(stages, s) })

	ctx := context.Background()
	firstDB, err := mgr.RunImport(ctx, source.Sample(), "sample")
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if filepath.Base(firstDB) != "filetally-20260102-030405.db" {
		t.Fatalf("unexpected snapshot name: %s", firstDB)
	}
	if len(stages) == 0 || stages[0] != "build" || stages[len(stages)-1] != "finalize" {
		t.Fatalf("unexpected stages: %v", stages)
	}

	latest, err := mgr.GetLatest()
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	firstResolved, err := filepath.EvalSymlinks(firstDB)
	if err != nil {
		t.Fatalf("resolve first db: %v", err)
	}
	if latest != firstResolved {
		t.Fatalf("latest does not point to first db: %s", latest)
	}

	secondDB, err := mgr.RunImport(ctx, source.Sample(), "sample")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if _, err := os.Stat(secondDB); err != nil {
		t.Fatalf("second db missing: %v", err)
	}
	if _, err := os.Stat(firstDB); err == nil {
		t.Fatalf("expected first db to be pruned")
	}

	snaps, err := mgr.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0] != secondDB {
		t.Fatalf("unexpected snapshots: %v", snaps)
	}
}

func TestManagerSnapshotContents(t *testing.T) {
	mgr := NewManager(t.TempDir(), 0)
	mgr.SetBatchSize(5)
	mgr.SetIndexMode("skip")

	path, err := mgr.RunImport(context.Background(), source.Sample(), "sample")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	database, err := Open(path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer database.Close()

	meta, err := db.GetLoadMeta(database)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.RecordCount != 12 || meta.LeafCount != 9 || meta.LargestID != 3 || meta.LargestSize != 20992 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.LoadID == "" || meta.Source != "sample" {
		t.Fatalf("missing load id or source: %+v", meta)
	}

	records, err := db.LoadRecords(database)
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 12 || records[0].Name != "Document.txt" || records[2].Parent != record.TopLevel() {
		t.Fatalf("unexpected records: %+v", records)
	}

	r, err := db.GetRollup(database, 34)
	if err != nil || r == nil {
		t.Fatalf("rollup 34: %v", err)
	}
	if r.TotalSize != 10752 || r.Descendants != 3 || r.Depth != 2 {
		t.Fatalf("unexpected rollup for Folder2: %+v", r)
	}
}

func TestManagerRejectsCycleWithoutWriting(t *testing.T) {
	outDir := t.TempDir()
	mgr := NewManager(outDir, 0)

	cyclic := []record.FileRecord{
		{ID: 1, Name: "a", Parent: record.ParentOf(2)},
		{ID: 2, Name: "b", Parent: record.ParentOf(1)},
	}
	_, err := mgr.RunImport(context.Background(), cyclic, "cyclic")
	if !errors.Is(err, tree.ErrMalformedHierarchy) {
		t.Fatalf("expected malformed hierarchy, got %v", err)
	}

	snaps, err := mgr.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("expected no snapshots, got %v", snaps)
	}
}

func TestManagerTempFileFollowsClock(t *testing.T) {
	outDir := t.TempDir()
	mgr := NewManager(outDir, 0)
	start := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	mgr.now = fixedClock(start)

	var tempSeen string
	mgr.SetStageFunc(func(s string) {
		if s != "ingest" {
			return
		}
		entries, _ := os.ReadDir(outDir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".filetally-temp-") && strings.HasSuffix(e.Name(), ".db") {
				tempSeen = e.Name()
			}
		}
	})

	if _, err := mgr.RunImport(context.Background(), source.Sample(), "sample"); err != nil {
		t.Fatalf("import: %v", err)
	}
	want := fmt.Sprintf(".filetally-temp-%d.db", start.UnixNano())
	if tempSeen != want {
		t.Fatalf("temp file = %q, want %q", tempSeen, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, want)); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
