package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/aggregate"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the k most common categories",
	RunE:  runCategories,
}

var (
	categoriesSrc    recordFlags
	categoriesK      int
	categoriesCounts bool
)

func init() {
	categoriesSrc.register(categoriesCmd)
	categoriesCmd.Flags().IntVarP(&categoriesK, "k", "k", 3, "Number of categories to report")
	categoriesCmd.Flags().BoolVar(&categoriesCounts, "counts", false, "Print occurrence counts next to each category")
}

func runCategories(cmd *cobra.Command, args []string) error {
	records, err := categoriesSrc.load()
	if err != nil {
		return err
	}

	top, err := aggregate.KLargestCategories(records, categoriesK)
	if err != nil {
		return err
	}

	if !categoriesCounts {
		for _, c := range top {
			fmt.Println(c)
		}
		return nil
	}

	ranked := aggregate.RankCategories(records)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "COUNT\tCATEGORY\n")
	for _, c := range ranked[:len(top)] {
		fmt.Fprintf(w, "%s\t%s\n", humanize.Comma(c.Count), c.Category)
	}
	return w.Flush()
}
