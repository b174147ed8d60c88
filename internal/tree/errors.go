package tree

import "errors"

// Sentinel errors returned by Build.
var (
	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrMalformedHierarchy is returned when the parent relation contains a
	// cycle, so some records can never be reached from the root.
	ErrMalformedHierarchy = errors.New("malformed hierarchy")

	// ErrNegativeSize is returned when a record reports a size below zero.
	ErrNegativeSize = errors.New("negative record size")
)
