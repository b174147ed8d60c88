package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/record"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.meta == nil {
		return "Loading..."
	}

	var b strings.Builder
	headerLines := 0

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	writeLine(titleStyle.Render("filetally - Record Hierarchy Browser"))

	loadInfo := fmt.Sprintf("Source: %s | Records: %s | Leaves: %s | Total: %s | Largest: %s",
		m.meta.Source,
		FormatCount(m.meta.RecordCount),
		FormatCount(m.meta.LeafCount),
		FormatSize(m.meta.TotalSize),
		FormatSize(m.meta.LargestSize),
	)
	writeLine(statsStyle.Render(loadInfo))

	writeLine(breadcrumbStyle.Render(fmt.Sprintf("Path: %s", truncateMiddle(m.currentPath(), max(10, m.width-6)))))

	status := fmt.Sprintf("Items: %s", FormatCount(int64(len(m.entries))))
	if m.filter != "" {
		status += fmt.Sprintf(" | Filter: %q", m.filter)
	}
	if len(m.entries) > 0 && m.cursor < len(m.entries) {
		sel := m.entries[m.cursor]
		status += fmt.Sprintf(" | Sel: %s #%d (%s)", sel.Name, sel.ID, FormatSize(sel.TotalSize))
	}
	writeLine(statusStyle.Render(status))

	if m.filterActive {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s_", m.filter)))
	} else if m.filter != "" {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s", m.filter)))
	}

	sizeLabel := headerLabel("SIZE", m.sort == SortBySize, "v")
	ownLabel := headerLabel("OWN", m.sort == SortByOwn, "v")
	countLabel := headerLabel("ITEMS", m.sort == SortByCount, "v")
	nameLabel := headerLabel("NAME", m.sort == SortByName, "^")

	dirInfo := ""
	if m.rollup != nil {
		dirInfo = fmt.Sprintf("Subtree: %s | %s items | depth %d",
			FormatSize(m.rollup.TotalSize),
			FormatCount(m.rollup.Descendants),
			m.rollup.Depth,
		)
	}

	footerLines := 2
	if dirInfo != "" {
		footerLines = 3
	}
	visibleRows := max(m.height-headerLines-footerLines, 5)

	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	endIdx := min(len(m.entries), startIdx+visibleRows)

	widths := calcColumnWidths(m.entries, startIdx, endIdx, sizeLabel, ownLabel, countLabel)
	nameWidth := calcNameWidth(m.width, widths)
	gap := strings.Repeat(" ", colGap)

	nameLabel = truncateRight(nameLabel, nameWidth)
	header := fmt.Sprintf("%*s%s%*s%s%*s%s%-*s%s%*s",
		widths.size, sizeLabel,
		gap,
		widths.own, ownLabel,
		gap,
		widths.count, countLabel,
		gap,
		nameWidth, nameLabel,
		gap,
		barColWidth, "SHARE",
	)
	writeLine(headerStyle.Render(header))

	parentTotal := m.meta.TotalSize
	if m.rollup != nil {
		parentTotal = m.rollup.TotalSize
	}
	for i := startIdx; i < endIdx; i++ {
		b.WriteString(m.formatEntry(m.entries[i], i == m.cursor, widths, nameWidth, parentTotal))
		b.WriteString("\n")
	}

	for i := max(endIdx-startIdx, 0); i < visibleRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if dirInfo != "" {
		b.WriteString(statsStyle.Render(dirInfo))
		b.WriteString("\n")
	}
	help := m.helpLine()
	if len(m.entries) > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, len(m.entries))
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

type columnWidths struct {
	size  int
	own   int
	count int
}

const (
	colGap        = 2
	minNameWidth  = 10
	barBlockWidth = 10
	barPctWidth   = 4 // " 78%" or "100%"
	barColWidth   = barBlockWidth + 2 + barPctWidth
)

func calcColumnWidths(entries []db.DisplayEntry, startIdx, endIdx int, sizeLabel, ownLabel, countLabel string) columnWidths {
	w := columnWidths{
		size:  len(sizeLabel),
		own:   len(ownLabel),
		count: len(countLabel),
	}

	for _, e := range entries[startIdx:endIdx] {
		w.size = max(w.size, len(FormatSize(e.TotalSize)))
		w.own = max(w.own, len(FormatSize(e.Size)))
		w.count = max(w.count, len(FormatCount(e.Descendants)))
	}

	return w
}

func calcNameWidth(totalWidth int, w columnWidths) int {
	used := w.size + w.own + w.count + colGap*4 + barColWidth
	return max(totalWidth-used, minNameWidth)
}

func (m *Model) formatEntry(e db.DisplayEntry, selected bool, widths columnWidths, nameWidth int, parentTotal int64) string {
	rawName := e.Name
	if e.Kind == record.KindInternal {
		rawName += "/"
	}
	rawName = truncateRight(rawName, nameWidth)

	styledName := leafStyle.Render(rawName)
	if e.Kind == record.KindInternal {
		styledName = internalStyle.Render(rawName)
	}
	paddedName := styledName + strings.Repeat(" ", max(nameWidth-len(rawName), 0))

	gap := strings.Repeat(" ", colGap)
	line := fmt.Sprintf("%*s%s%*s%s%*s%s%s%s%s",
		widths.size, FormatSize(e.TotalSize),
		gap,
		widths.own, FormatSize(e.Size),
		gap,
		widths.count, FormatCount(e.Descendants),
		gap,
		paddedName,
		gap,
		formatBar(e.TotalSize, parentTotal),
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func formatBar(value, total int64) string {
	if total <= 0 || value <= 0 {
		return barEmptyStyle.Render(strings.Repeat("░", barBlockWidth)) + fmt.Sprintf("  %3d%%", 0)
	}

	pct := min(float64(value)/float64(total)*100, 100)
	filled := int(math.Round(pct / 100 * float64(barBlockWidth)))
	filled = min(max(filled, 1), barBlockWidth)

	filledStr := barFilledStyle.Render(strings.Repeat("█", filled))
	emptyStr := barEmptyStyle.Render(strings.Repeat("░", barBlockWidth-filled))
	return filledStr + emptyStr + fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

func headerLabel(label string, active bool, dir string) string {
	if active {
		return label + dir
	}
	return label
}

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}
