// Package tree builds a rooted hierarchy from flat parent-linked records.
//
// Nodes live in an arena and are addressed by int index. Index 0 is always
// the synthetic root, which collects top-level records and records whose
// parent does not exist. A built Tree is never modified, so it can be read
// from multiple goroutines.
package tree

import (
	"fmt"

	"github.com/michaelscutari/filetally/internal/record"
)

// RootIndex is the arena index of the synthetic root.
const RootIndex = 0

type node struct {
	rec      record.FileRecord
	children []int
}

// Tree is an immutable arena of nodes.
type Tree struct {
	nodes []node
	index map[int64]int
}

// Build converts records into a tree. Children keep the order in which their
// records were supplied.
func Build(records []record.FileRecord) (*Tree, error) {
	t := &Tree{
		nodes: make([]node, len(records)+1),
		index: make(map[int64]int, len(records)),
	}
	t.nodes[RootIndex] = node{rec: record.FileRecord{ID: record.NoParent, Parent: record.TopLevel()}}

	for i, r := range records {
		if r.Size < 0 {
			return nil, fmt.Errorf("%w: record %d has size %d", ErrNegativeSize, r.ID, r.Size)
		}
		if _, dup := t.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		t.nodes[i+1] = node{rec: r}
		t.index[r.ID] = i + 1
	}

	for i, r := range records {
		parent := RootIndex
		if pid, ok := r.Parent.ID(); ok {
			if p, found := t.index[pid]; found {
				parent = p
			}
		}
		t.nodes[parent].children = append(t.nodes[parent].children, i+1)
	}

	if err := t.checkReachable(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkReachable walks from the root and fails if any record was not
// reached. Every record has exactly one parent edge, so an unreached record
// sits on or under a parent cycle.
func (t *Tree) checkReachable() error {
	seen := make([]bool, len(t.nodes))
	seen[RootIndex] = true
	reached := 0
	stack := []int{RootIndex}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.nodes[i].children {
			if seen[c] {
				continue
			}
			seen[c] = true
			reached++
			stack = append(stack, c)
		}
	}
	if reached == len(t.nodes)-1 {
		return nil
	}

	for i := 1; i < len(t.nodes); i++ {
		if !seen[i] {
			return fmt.Errorf("%w: parent cycle through record %d", ErrMalformedHierarchy, t.cycleMember(i))
		}
	}
	return nil
}

// cycleMember follows parent links from an unreached node until an id
// repeats and returns that id.
func (t *Tree) cycleMember(i int) int64 {
	visited := make(map[int]struct{})
	for {
		if _, ok := visited[i]; ok {
			return t.nodes[i].rec.ID
		}
		visited[i] = struct{}{}
		pid, _ := t.nodes[i].rec.Parent.ID()
		i = t.index[pid]
	}
}

// Len returns the number of real records in the tree.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Root returns the index of the synthetic root.
func (t *Tree) Root() int {
	return RootIndex
}

// IsRoot reports whether i is the synthetic root.
func (t *Tree) IsRoot(i int) bool {
	return i == RootIndex
}

// IsLeaf reports whether i is a real record with no children.
func (t *Tree) IsLeaf(i int) bool {
	return i != RootIndex && len(t.nodes[i].children) == 0
}

// Kind returns the record kind of node i.
func (t *Tree) Kind(i int) record.Kind {
	if len(t.nodes[i].children) == 0 {
		return record.KindLeaf
	}
	return record.KindInternal
}

// Record returns the record stored at i. The root holds a synthetic record.
func (t *Tree) Record(i int) record.FileRecord {
	return t.nodes[i].rec
}

// Children returns the child indexes of i. The slice must not be modified.
func (t *Tree) Children(i int) []int {
	return t.nodes[i].children
}

// Index returns the arena index of the record with the given id.
func (t *Tree) Index(id int64) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}
