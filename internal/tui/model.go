package tui

import (
	"database/sql"
	"strings"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/pathutil"
	"github.com/michaelscutari/filetally/internal/record"

	tea "github.com/charmbracelet/bubbletea"
)

// SortColumn represents the current sort field.
type SortColumn int

const (
	SortBySize SortColumn = iota
	SortByOwn
	SortByName
	SortByCount
)

func (s SortColumn) String() string {
	switch s {
	case SortByOwn:
		return "own"
	case SortByName:
		return "name"
	case SortByCount:
		return "count"
	default:
		return "size"
	}
}

const maxRows = 1000

// Model holds the TUI state.
type Model struct {
	db           *sql.DB
	current      record.ParentRef
	crumbs       []string
	allEntries   []db.DisplayEntry
	entries      []db.DisplayEntry
	cursor       int
	sort         SortColumn
	width        int
	height       int
	meta         *record.LoadMeta
	rollup       *record.Rollup
	filter       string
	filterActive bool
	err          error

	getRollup func(*sql.DB, int64) (*record.Rollup, error)
}

// NewModel creates a new TUI model.
func NewModel(database *sql.DB) *Model {
	return &Model{
		db:        database,
		current:   record.TopLevel(),
		sort:      SortBySize,
		getRollup: db.GetRollup,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadInitialData
}

type dataLoadedMsg struct {
	meta    *record.LoadMeta
	entries []db.DisplayEntry
	err     error
}

func (m *Model) loadInitialData() tea.Msg {
	meta, err := db.GetLoadMeta(m.db)
	if err != nil {
		return dataLoadedMsg{err: err}
	}

	entries, err := db.LoadChildren(m.db, record.TopLevel(), m.sort.String(), maxRows)
	if err != nil {
		return dataLoadedMsg{err: err}
	}

	return dataLoadedMsg{meta: meta, entries: entries}
}

type entriesLoadedMsg struct {
	parent  record.ParentRef
	crumbs  []string
	entries []db.DisplayEntry
	rollup  *record.Rollup
	err     error
}

func (m *Model) loadEntries(parent record.ParentRef) tea.Cmd {
	return func() tea.Msg {
		entries, err := db.LoadChildren(m.db, parent, m.sort.String(), maxRows)
		if err != nil {
			return entriesLoadedMsg{err: err}
		}

		msg := entriesLoadedMsg{parent: parent, entries: entries}
		if id, ok := parent.ID(); ok {
			msg.rollup, err = m.getRollup(m.db, id)
			if err != nil {
				return entriesLoadedMsg{err: err}
			}
			msg.crumbs, err = m.breadcrumbs(id)
			if err != nil {
				return entriesLoadedMsg{err: err}
			}
		}
		return msg
	}
}

// breadcrumbs returns record names from the top level down to id.
// Snapshots never contain cycles, so the walk terminates.
func (m *Model) breadcrumbs(id int64) ([]string, error) {
	var names []string
	for {
		rec, err := db.GetRecord(m.db, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		names = append(names, rec.Name)
		pid, ok := rec.Parent.ID()
		if !ok {
			break
		}
		id = pid
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names, nil
}

// parentOf resolves the view above the current node. Records whose parent
// does not exist were listed at the top level.
func (m *Model) parentOf(ref record.ParentRef) (record.ParentRef, error) {
	id, ok := ref.ID()
	if !ok {
		return record.TopLevel(), nil
	}
	rec, err := db.GetRecord(m.db, id)
	if err != nil {
		return record.TopLevel(), err
	}
	if rec == nil {
		return record.TopLevel(), nil
	}
	pid, ok := rec.Parent.ID()
	if !ok {
		return record.TopLevel(), nil
	}
	if parent, err := db.GetRecord(m.db, pid); err != nil || parent == nil {
		return record.TopLevel(), err
	}
	return rec.Parent, nil
}

func (m *Model) currentPath() string {
	return pathutil.Breadcrumb(m.crumbs)
}

func (m *Model) helpLine() string {
	if m.filterActive {
		return "Type to filter | Enter: apply | Esc: clear | ctrl+c: quit"
	}
	return "↑/↓ move | Enter: open | Backspace: up | s/o/n/c: sort | /: filter | q: quit"
}

func (m *Model) setEntries(entries []db.DisplayEntry) {
	m.allEntries = entries
	m.applyFilter()
}

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.entries = m.allEntries
	} else {
		filtered := make([]db.DisplayEntry, 0, len(m.allEntries))
		needle := strings.ToLower(m.filter)
		for _, e := range m.allEntries {
			if strings.Contains(strings.ToLower(e.Name), needle) {
				filtered = append(filtered, e)
			}
		}
		m.entries = filtered
	}
	m.cursor = 0
}
