package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/snapshot"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the snapshot non-interactively",
	Long:  `List the children of a record with their subtree rollups, for scripting.`,
	RunE:  runQuery,
}

var (
	queryDB     string
	queryParent int64
	querySort   string
	queryLimit  int
)

func init() {
	queryCmd.Flags().StringVarP(&queryDB, "db", "d", defaultDB, "Path to database file")
	queryCmd.Flags().Int64VarP(&queryParent, "parent", "p", record.NoParent, "Parent record id (-1 = top level)")
	queryCmd.Flags().StringVarP(&querySort, "sort", "s", "size", "Sort by: size, own, name, count, input")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "Maximum number of results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	database, err := snapshot.Open(queryDB)
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := db.LoadChildren(database, record.ParentFromInt(queryParent), querySort, queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSIZE\tOWN\tITEMS\tKIND\tNAME\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			humanize.Bytes(uint64(e.TotalSize)),
			humanize.Bytes(uint64(e.Size)),
			humanize.Comma(e.Descendants),
			e.Kind,
			e.Name,
		)
	}
	return w.Flush()
}
