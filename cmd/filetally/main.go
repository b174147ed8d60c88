package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/logging"
)

var version = "0.1.0"

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "filetally",
	Short: "Aggregate statistics over flat file hierarchies",
	Long: `filetally builds a tree from flat, parent-linked file records and
reports leaves, the most common categories and the largest subtree.
Records can be imported from JSON or a directory walk into SQLite
snapshots for browsing and serving.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logging.Config{Level: logLevel, Format: logFormat})
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console|json")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(leavesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(largestCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}
