package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/snapshot"
	"github.com/michaelscutari/filetally/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a snapshot interactively",
	Long:  `Open an interactive TUI to browse the record hierarchy and its subtree sizes.`,
	RunE:  runTUI,
}

var tuiDB string

func init() {
	tuiCmd.Flags().StringVarP(&tuiDB, "db", "d", defaultDB, "Path to database file")
}

func runTUI(cmd *cobra.Command, args []string) error {
	database, err := snapshot.Open(tuiDB)
	if err != nil {
		return err
	}
	defer database.Close()

	model := tui.NewModel(database)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
