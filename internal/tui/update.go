package tui

import (
	"github.com/michaelscutari/filetally/internal/record"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.meta = msg.meta
		m.current = record.TopLevel()
		m.crumbs = nil
		m.rollup = nil
		m.filter = ""
		m.filterActive = false
		m.setEntries(msg.entries)
		return m, nil

	case entriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.current = msg.parent
		m.crumbs = msg.crumbs
		m.rollup = msg.rollup
		m.filter = ""
		m.filterActive = false
		m.setEntries(msg.entries)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		switch msg.String() {
		case "enter":
			m.filterActive = false
			return m, nil

		case "esc":
			m.filterActive = false
			m.filter = ""
			m.applyFilter()
			return m, nil

		case "backspace":
			if len(m.filter) > 0 {
				runes := []rune(m.filter)
				m.filter = string(runes[:len(runes)-1])
				m.applyFilter()
			}
			return m, nil

		case "ctrl+c":
			return m, tea.Quit
		}

		if msg.Type == tea.KeyRunes {
			m.filter += msg.String()
			m.applyFilter()
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "l", "right":
		if len(m.entries) > 0 && m.cursor < len(m.entries) {
			selected := m.entries[m.cursor]
			if selected.Kind == record.KindInternal {
				return m, m.loadEntries(record.ParentOf(selected.ID))
			}
		}
		return m, nil

	case "backspace", "h", "left":
		if m.current.IsTopLevel() {
			return m, nil
		}
		parent, err := m.parentOf(m.current)
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.loadEntries(parent)

	case "s":
		m.sort = SortBySize
		return m, m.loadEntries(m.current)

	case "o":
		m.sort = SortByOwn
		return m, m.loadEntries(m.current)

	case "n":
		m.sort = SortByName
		return m, m.loadEntries(m.current)

	case "c":
		m.sort = SortByCount
		return m, m.loadEntries(m.current)

	case "/":
		m.filterActive = true
		return m, nil

	case "home", "g":
		m.cursor = 0
		return m, nil

	case "end", "G":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
		return m, nil

	case "pgup":
		m.cursor = max(m.cursor-10, 0)
		return m, nil

	case "pgdown":
		m.cursor = max(min(m.cursor+10, len(m.entries)-1), 0)
		return m, nil
	}

	return m, nil
}
