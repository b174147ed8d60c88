package aggregate

import (
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/tree"
)

// Rollups computes subtree totals for every real record, bottom-up. The
// result is in post-order. The root's own total is accumulated so children
// can be summed into it, but it is never returned.
func Rollups(t *tree.Tree) []record.Rollup {
	totals := make([]int64, t.Len()+1)
	descendants := make([]int64, t.Len()+1)
	depths := make([]int, t.Len()+1)

	t.PreOrder(func(i, depth int) {
		depths[i] = depth
	})

	rollups := make([]record.Rollup, 0, t.Len())
	t.PostOrder(func(i int) {
		total := t.Record(i).Size
		var desc int64
		for _, c := range t.Children(i) {
			total += totals[c]
			desc += descendants[c] + 1
		}
		totals[i] = total
		descendants[i] = desc

		if t.IsRoot(i) {
			return
		}
		rollups = append(rollups, record.Rollup{
			RecordID:    t.Record(i).ID,
			TotalSize:   total,
			Descendants: desc,
			Depth:       depths[i],
		})
	})
	return rollups
}

// Largest returns the rollup with the greatest subtree size, lowest id on
// ties. ok is false when there are no records.
func Largest(rollups []record.Rollup) (best record.Rollup, ok bool) {
	for _, r := range rollups {
		if !ok || r.TotalSize > best.TotalSize ||
			(r.TotalSize == best.TotalSize && r.RecordID < best.RecordID) {
			best = r
			ok = true
		}
	}
	return best, ok
}

// LargestSubtreeSize builds the tree from records and returns the largest
// cumulative subtree size of any real record, or 0 when there are none.
func LargestSubtreeSize(records []record.FileRecord) (int64, error) {
	t, err := tree.Build(records)
	if err != nil {
		return 0, err
	}
	best, ok := Largest(Rollups(t))
	if !ok {
		return 0, nil
	}
	return best.TotalSize, nil
}
