package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaelscutari/filetally/internal/db"
	"github.com/michaelscutari/filetally/internal/snapshot"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display snapshot metadata",
	Long:  `Print metadata about a snapshot including timestamps, statistics and the most common categories.`,
	RunE:  runInfo,
}

var (
	infoDB   string
	infoTopK int
)

func init() {
	infoCmd.Flags().StringVarP(&infoDB, "db", "d", defaultDB, "Path to database file")
	infoCmd.Flags().IntVarP(&infoTopK, "top", "k", 5, "Number of categories to list")
}

func runInfo(cmd *cobra.Command, args []string) error {
	database, err := snapshot.Open(infoDB)
	if err != nil {
		return err
	}
	defer database.Close()

	meta, err := db.GetLoadMeta(database)
	if err != nil {
		return fmt.Errorf("failed to read load metadata: %w", err)
	}

	fmt.Printf("Snapshot Information\n")
	fmt.Printf("====================\n\n")
	fmt.Printf("Load ID:      %s\n", meta.LoadID)
	fmt.Printf("Source:       %s\n", meta.Source)
	fmt.Printf("Start Time:   %s\n", meta.StartTime.Format(time.RFC3339))
	if !meta.EndTime.IsZero() {
		fmt.Printf("End Time:     %s\n", meta.EndTime.Format(time.RFC3339))
		fmt.Printf("Duration:     %s\n", meta.EndTime.Sub(meta.StartTime).Round(time.Millisecond))
	}

	fmt.Printf("\nStatistics\n")
	fmt.Printf("----------\n")
	fmt.Printf("Records:       %s\n", humanize.Comma(meta.RecordCount))
	fmt.Printf("Leaves:        %s\n", humanize.Comma(meta.LeafCount))
	fmt.Printf("Categories:    %s\n", humanize.Comma(meta.CategoryCount))
	fmt.Printf("Total Size:    %s\n", humanize.Bytes(uint64(meta.TotalSize)))
	if meta.RecordCount > 0 {
		fmt.Printf("Largest:       #%d (%s)\n", meta.LargestID, humanize.Bytes(uint64(meta.LargestSize)))
	}

	if infoTopK <= 0 {
		return nil
	}
	top, err := db.CategoryCounts(database, infoTopK)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if len(top) > 0 {
		fmt.Printf("\nTop Categories\n")
		fmt.Printf("--------------\n")
		for _, c := range top {
			fmt.Printf("%-14s %s\n", c.Category, humanize.Comma(c.Count))
		}
	}
	return nil
}
