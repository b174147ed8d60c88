package record

import (
	"fmt"
	"time"
)

// NoParent is the integer form of a top-level parent reference. It only
// appears at decode and storage boundaries; in memory use ParentRef.
const NoParent int64 = -1

// ParentRef identifies the parent of a record. The zero value is TopLevel.
type ParentRef struct {
	id  int64
	set bool
}

// TopLevel returns a reference meaning "no parent".
func TopLevel() ParentRef {
	return ParentRef{}
}

// ParentOf returns a reference to the record with the given id.
func ParentOf(id int64) ParentRef {
	return ParentRef{id: id, set: true}
}

// ParentFromInt converts the integer convention (NoParent for top-level)
// into a ParentRef.
func ParentFromInt(id int64) ParentRef {
	if id == NoParent {
		return TopLevel()
	}
	return ParentOf(id)
}

// ID returns the parent id and true, or false for a top-level reference.
func (p ParentRef) ID() (int64, bool) {
	return p.id, p.set
}

// IsTopLevel reports whether the reference has no parent.
func (p ParentRef) IsTopLevel() bool {
	return !p.set
}

// Int returns the integer convention for the reference.
func (p ParentRef) Int() int64 {
	if !p.set {
		return NoParent
	}
	return p.id
}

func (p ParentRef) String() string {
	if !p.set {
		return "top-level"
	}
	return fmt.Sprintf("%d", p.id)
}

// FileRecord is one entry of the flat hierarchy.
type FileRecord struct {
	ID         int64
	Name       string
	Categories []string
	Parent     ParentRef
	Size       int64 // Own size, excluding descendants
}

// Kind classifies a record by its position in the built tree.
type Kind uint8

const (
	KindLeaf     Kind = 0
	KindInternal Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	default:
		return "leaf"
	}
}

// Rollup holds aggregated statistics for a record's subtree.
type Rollup struct {
	RecordID    int64
	TotalSize   int64 // Own size plus all descendants
	Descendants int64
	Depth       int // 1 for top-level records
}

// LoadMeta holds metadata about one import.
type LoadMeta struct {
	LoadID        string
	Source        string
	StartTime     time.Time
	EndTime       time.Time
	RecordCount   int64
	LeafCount     int64
	CategoryCount int64
	TotalSize     int64
	LargestID     int64
	LargestSize   int64
}
