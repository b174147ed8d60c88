package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/aggregate"
	"github.com/michaelscutari/filetally/internal/tree"
)

var largestCmd = &cobra.Command{
	Use:   "largest",
	Short: "Report the largest cumulative subtree size",
	RunE:  runLargest,
}

var (
	largestSrc   recordFlags
	largestHuman bool
)

func init() {
	largestSrc.register(largestCmd)
	largestCmd.Flags().BoolVarP(&largestHuman, "human", "H", false, "Print the size with units and the owning record")
}

func runLargest(cmd *cobra.Command, args []string) error {
	records, err := largestSrc.load()
	if err != nil {
		return err
	}

	t, err := tree.Build(records)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}
	best, ok := aggregate.Largest(aggregate.Rollups(t))
	if !ok {
		fmt.Println(0)
		return nil
	}
	if !largestHuman {
		fmt.Println(best.TotalSize)
		return nil
	}

	i, _ := t.Index(best.RecordID)
	fmt.Printf("%s  %s (#%d)\n", humanize.Bytes(uint64(best.TotalSize)), t.Record(i).Name, best.RecordID)
	return nil
}
