package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Palette entries adapt to light and dark terminal backgrounds.
var (
	accent = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	subtle = lipgloss.AdaptiveColor{Light: "241", Dark: "245"}
	faint  = lipgloss.AdaptiveColor{Light: "250", Dark: "240"}
	good   = lipgloss.AdaptiveColor{Light: "28", Dark: "76"}
	notice = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	plain  = lipgloss.AdaptiveColor{Light: "235", Dark: "255"}
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	breadcrumbStyle = lipgloss.NewStyle().Foreground(subtle)
	statusStyle     = lipgloss.NewStyle().Foreground(subtle)
	statsStyle      = lipgloss.NewStyle().Foreground(subtle).MarginBottom(1)
	filterStyle     = lipgloss.NewStyle().Foreground(notice)
	helpStyle       = lipgloss.NewStyle().Foreground(faint).MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(faint).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(faint)

	// Row styles
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	internalStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	leafStyle     = lipgloss.NewStyle().Foreground(plain)

	barFilledStyle = lipgloss.NewStyle().Foreground(good)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(faint)
)

// FormatSize renders a byte count with SI units.
func FormatSize(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
