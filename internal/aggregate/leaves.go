// Package aggregate computes read-only summaries over a record hierarchy.
//
// None of the functions here modify their input. Each call builds whatever
// intermediate state it needs locally, so calls with disjoint inputs may run
// concurrently.
package aggregate

import (
	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/tree"
)

// LeafNames returns the names of all records that have no children, in
// pre-order. The synthetic root is never reported, even when it has no
// children. Callers that need a canonical order must sort the result.
func LeafNames(t *tree.Tree) []string {
	names := make([]string, 0)
	t.PreOrder(func(i, _ int) {
		if t.IsLeaf(i) {
			names = append(names, t.Record(i).Name)
		}
	})
	return names
}

// LeafNamesOf builds the tree from records and returns its leaf names.
func LeafNamesOf(records []record.FileRecord) ([]string, error) {
	t, err := tree.Build(records)
	if err != nil {
		return nil, err
	}
	return LeafNames(t), nil
}
