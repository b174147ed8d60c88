package aggregate

import (
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/source"
	"github.com/michaelscutari/filetally/internal/tree"
)

func TestLeafNamesSample(t *testing.T) {
	names, err := LeafNamesOf(source.Sample())
	require.NoError(t, err)

	sort.Strings(names)
	require.Equal(t, []string{
		"Audio.mp3",
		"Backup.zip",
		"Code.py",
		"Document.txt",
		"Image.jpg",
		"Presentation.pptx",
		"Spreadsheet.xlsx",
		"Spreadsheet2.xlsx",
		"Video.mp4",
	}, names)
}

func TestLeafNamesEdgeCases(t *testing.T) {
	names, err := LeafNamesOf(nil)
	require.NoError(t, err)
	require.Empty(t, names)
	require.NotNil(t, names)

	names, err = LeafNamesOf([]record.FileRecord{{ID: 7, Name: "only", Parent: record.TopLevel()}})
	require.NoError(t, err)
	require.Equal(t, []string{"only"}, names)

	// An empty folder has no children, so it is a leaf.
	names, err = LeafNamesOf([]record.FileRecord{
		{ID: 1, Name: "empty", Categories: []string{"Folder"}, Parent: record.TopLevel()},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"empty"}, names)
}

func TestLeafNamesDuplicateNames(t *testing.T) {
	names, err := LeafNamesOf([]record.FileRecord{
		{ID: 1, Name: "dup", Parent: record.TopLevel()},
		{ID: 2, Name: "dup", Parent: record.TopLevel()},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"dup", "dup"}, names)
}

func TestKLargestCategoriesSample(t *testing.T) {
	top, err := KLargestCategories(source.Sample(), 3)
	require.NoError(t, err)
	require.Equal(t, []string{"Documents", "Folder", "Media"}, top)
}

func TestKLargestCategoriesBounds(t *testing.T) {
	records := source.Sample()

	top, err := KLargestCategories(records, 0)
	require.NoError(t, err)
	require.Empty(t, top)

	all, err := KLargestCategories(records, 100)
	require.NoError(t, err)
	require.Len(t, all, len(RankCategories(records)))

	_, err = KLargestCategories(records, -1)
	require.ErrorIs(t, err, ErrInvalidK)

	none, err := KLargestCategories(nil, 3)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRankCategoriesCountsEveryOccurrence(t *testing.T) {
	ranked := RankCategories([]record.FileRecord{
		{ID: 1, Categories: []string{"b", "b"}},
		{ID: 2, Categories: []string{"a"}},
		{ID: 3, Categories: []string{"c", "a"}},
		{ID: 4},
	})
	require.Equal(t, []CategoryCount{
		{Category: "a", Count: 2},
		{Category: "b", Count: 2},
		{Category: "c", Count: 1},
	}, ranked)
}

func TestRankCategoriesIgnoresHierarchy(t *testing.T) {
	// Categories are counted from the flat list; a cycle does not matter.
	ranked := RankCategories([]record.FileRecord{
		{ID: 1, Categories: []string{"x"}, Parent: record.ParentOf(2)},
		{ID: 2, Categories: []string{"x"}, Parent: record.ParentOf(1)},
	})
	require.Equal(t, []CategoryCount{{Category: "x", Count: 2}}, ranked)
}

func TestLargestSubtreeSizeSample(t *testing.T) {
	size, err := LargestSubtreeSize(source.Sample())
	require.NoError(t, err)
	require.Equal(t, int64(20992), size)
}

func TestLargestSubtreeSizeEdgeCases(t *testing.T) {
	size, err := LargestSubtreeSize(nil)
	require.NoError(t, err)
	require.Zero(t, size)

	size, err = LargestSubtreeSize([]record.FileRecord{
		{ID: 1, Name: "a", Parent: record.TopLevel()},
		{ID: 2, Name: "b", Parent: record.ParentOf(1)},
	})
	require.NoError(t, err)
	require.Zero(t, size)

	size, err = LargestSubtreeSize([]record.FileRecord{{ID: 1, Name: "a", Size: 42}})
	require.NoError(t, err)
	require.Equal(t, int64(42), size)
}

func TestRollupsSample(t *testing.T) {
	tr, err := tree.Build(source.Sample())
	require.NoError(t, err)

	rollups := Rollups(tr)
	require.Len(t, rollups, 12)

	byID := make(map[int64]record.Rollup, len(rollups))
	var sumTop int64
	for _, r := range rollups {
		byID[r.RecordID] = r
		if r.Depth == 1 {
			sumTop += r.TotalSize
		}
	}
	require.Equal(t, record.Rollup{RecordID: 3, TotalSize: 20992, Descendants: 8, Depth: 1}, byID[3])
	require.Equal(t, record.Rollup{RecordID: 34, TotalSize: 10752, Descendants: 3, Depth: 2}, byID[34])
	require.Equal(t, record.Rollup{RecordID: 233, TotalSize: 12288, Descendants: 1, Depth: 1}, byID[233])
	require.Equal(t, record.Rollup{RecordID: 2, TotalSize: 2048, Descendants: 0, Depth: 3}, byID[2])
	require.Equal(t, int64(34816), sumTop)

	best, ok := Largest(rollups)
	require.True(t, ok)
	require.Equal(t, int64(3), best.RecordID)
}

func TestLargestBreaksTiesByID(t *testing.T) {
	best, ok := Largest([]record.Rollup{
		{RecordID: 9, TotalSize: 5},
		{RecordID: 4, TotalSize: 5},
		{RecordID: 6, TotalSize: 1},
	})
	require.True(t, ok)
	require.Equal(t, int64(4), best.RecordID)

	_, ok = Largest(nil)
	require.False(t, ok)
}

func TestDanglingParentMatchesTopLevel(t *testing.T) {
	dangling := []record.FileRecord{
		{ID: 1, Name: "a", Categories: []string{"k"}, Parent: record.ParentOf(404), Size: 3},
		{ID: 2, Name: "b", Parent: record.ParentOf(1), Size: 4},
	}
	top := slices.Clone(dangling)
	top[0].Parent = record.TopLevel()

	for _, records := range [][]record.FileRecord{dangling, top} {
		leaves, err := LeafNamesOf(records)
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, leaves)

		size, err := LargestSubtreeSize(records)
		require.NoError(t, err)
		require.Equal(t, int64(7), size)
	}
}

func TestAggregatesRejectCycles(t *testing.T) {
	cyclic := []record.FileRecord{
		{ID: 1, Name: "a", Parent: record.ParentOf(2)},
		{ID: 2, Name: "b", Parent: record.ParentOf(1)},
	}

	_, err := LeafNamesOf(cyclic)
	require.ErrorIs(t, err, tree.ErrMalformedHierarchy)

	_, err = LargestSubtreeSize(cyclic)
	require.ErrorIs(t, err, tree.ErrMalformedHierarchy)
}

func TestAggregatesDoNotMutateInput(t *testing.T) {
	records := source.Sample()
	before := slices.Clone(records)

	first, err := LargestSubtreeSize(records)
	require.NoError(t, err)
	_, err = LeafNamesOf(records)
	require.NoError(t, err)
	_, err = KLargestCategories(records, 3)
	require.NoError(t, err)
	second, err := LargestSubtreeSize(records)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, before, records)
}
