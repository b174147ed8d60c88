package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/michaelscutari/filetally/internal/record"
)

// ErrInvalidK is returned when a negative k is requested.
var ErrInvalidK = errors.New("k must not be negative")

// CategoryCount is one entry of a category ranking.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RankCategories counts every category occurrence across records (a record
// listing the same category twice counts it twice) and returns the distinct
// categories by descending count, ties by ascending name.
func RankCategories(records []record.FileRecord) []CategoryCount {
	counts := make(map[string]int64)
	for _, r := range records {
		for _, c := range r.Categories {
			counts[c]++
		}
	}

	ranked := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// KLargestCategories returns the k most frequent categories, highest count
// first. k larger than the number of distinct categories is clamped.
func KLargestCategories(records []record.FileRecord, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	ranked := RankCategories(records)
	if k > len(ranked) {
		k = len(ranked)
	}

	top := make([]string, 0, k)
	for _, c := range ranked[:k] {
		top = append(top, c.Category)
	}
	return top, nil
}
