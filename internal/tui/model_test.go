package tui

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/snapshot"
	"github.com/michaelscutari/filetally/internal/source"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	mgr := snapshot.NewManager(t.TempDir(), 0)
	path, err := mgr.RunImport(context.Background(), source.Sample(), "sample")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	database, err := snapshot.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	m := NewModel(database)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(m.Init()())
	if m.err != nil {
		t.Fatalf("initial load: %v", m.err)
	}
	return m
}

// press sends a key and runs any command it returns.
func press(m *Model, key tea.KeyMsg) {
	_, cmd := m.Update(key)
	if cmd != nil {
		m.Update(cmd())
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelBrowsesHierarchy(t *testing.T) {
	m := newTestModel(t)

	if len(m.entries) != 3 || m.entries[0].Name != "Folder" {
		t.Fatalf("unexpected top level: %+v", m.entries)
	}
	if m.entries[0].Kind != record.KindInternal || m.entries[2].Kind != record.KindLeaf {
		t.Fatalf("unexpected kinds: %+v", m.entries)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != record.ParentOf(3) || m.currentPath() != "/Folder" {
		t.Fatalf("expected to be inside Folder, got %v %q", m.current, m.currentPath())
	}
	if m.rollup == nil || m.rollup.TotalSize != 20992 {
		t.Fatalf("unexpected rollup: %+v", m.rollup)
	}
	if m.entries[0].Name != "Folder2" {
		t.Fatalf("expected Folder2 first, got %+v", m.entries)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.currentPath() != "/Folder/Folder2" || len(m.entries) != 3 {
		t.Fatalf("unexpected Folder2 view: %q %+v", m.currentPath(), m.entries)
	}

	// Leaves cannot be opened.
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != record.ParentOf(34) {
		t.Fatalf("entering a leaf should not move, got %v", m.current)
	}

	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if !m.current.IsTopLevel() || m.currentPath() != "/" {
		t.Fatalf("expected top level, got %v", m.current)
	}
}

func TestModelSortAndFilter(t *testing.T) {
	m := newTestModel(t)

	press(m, runes("n"))
	if m.sort != SortByName || m.entries[0].Name != "Code.py" {
		t.Fatalf("expected name sort, got %v %+v", m.sort, m.entries)
	}

	press(m, runes("/"))
	for _, r := range "fold" {
		press(m, runes(string(r)))
	}
	if !m.filterActive || len(m.entries) != 2 {
		t.Fatalf("expected two folders after filter, got %+v", m.entries)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter != "" || len(m.entries) != 3 {
		t.Fatalf("expected filter cleared, got %q %+v", m.filter, m.entries)
	}
}

func TestViewRendersRows(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"filetally", "Records: 12", "Leaves: 9", "Folder/", "Code.py"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBar(t *testing.T) {
	if got := formatBar(0, 100); !strings.HasSuffix(got, "  0%") {
		t.Fatalf("unexpected empty bar: %q", got)
	}
	if got := formatBar(50, 100); !strings.HasSuffix(got, " 50%") {
		t.Fatalf("unexpected half bar: %q", got)
	}
	if got := truncateMiddle("/a/very/long/path", 9); got != "/a/...ath" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestModelReportsRollupError(t *testing.T) {
	m := newTestModel(t)
	m.getRollup = func(*sql.DB, int64) (*record.Rollup, error) {
		return nil, errors.New("rollup lookup failed")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err == nil || !strings.Contains(m.err.Error(), "rollup lookup failed") {
		t.Fatalf("expected rollup error, got %v", m.err)
	}
}

func TestFilterHelpNamesWorkingQuitKey(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("/"))

	help := m.helpLine()
	if !strings.Contains(help, "ctrl+c: quit") || strings.Contains(help, "| q: quit") {
		t.Fatalf("unexpected filter help: %q", help)
	}

	// q is typed into the filter rather than quitting.
	_, cmd := m.Update(runes("q"))
	if cmd != nil || m.filter != "q" {
		t.Fatalf("expected q to extend the filter, got %q (cmd %v)", m.filter, cmd != nil)
	}
}
