package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/aggregate"
)

var leavesCmd = &cobra.Command{
	Use:   "leaves",
	Short: "List the names of records without children",
	RunE:  runLeaves,
}

var (
	leavesSrc  recordFlags
	leavesSort bool
)

func init() {
	leavesSrc.register(leavesCmd)
	leavesCmd.Flags().BoolVar(&leavesSort, "sort", false, "Sort names alphabetically")
}

func runLeaves(cmd *cobra.Command, args []string) error {
	records, err := leavesSrc.load()
	if err != nil {
		return err
	}

	names, err := aggregate.LeafNamesOf(records)
	if err != nil {
		return fmt.Errorf("failed to collect leaves: %w", err)
	}
	if leavesSort {
		sort.Strings(names)
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
