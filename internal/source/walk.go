package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/michaelscutari/filetally/internal/pathutil"
	"github.com/michaelscutari/filetally/internal/record"
)

// ErrTooManyErrors is returned when a walk exceeds Options.MaxErrors.
var ErrTooManyErrors = errors.New("too many walk errors")

// PathError is a path the walker could not read.
type PathError struct {
	Path    string
	Message string
}

// WalkResult is the outcome of a directory walk.
type WalkResult struct {
	Root      string
	Records   []record.FileRecord
	Errors    []PathError
	Truncated bool
}

// WalkDir converts the directory tree under root into records. Ids are
// assigned in walk order starting at 1; the root directory itself is the
// single top-level record. Symlinks are recorded but not followed.
func WalkDir(ctx context.Context, root string, opts *Options) (*WalkResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	root = pathutil.Normalize(root)

	if _, err := os.Lstat(root); err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}

	res := &WalkResult{Root: root}
	ids := make(map[string]int64)
	var nextID int64

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			res.Errors = append(res.Errors, PathError{Path: path, Message: err.Error()})
			if opts.MaxErrors > 0 && len(res.Errors) >= opts.MaxErrors {
				return fmt.Errorf("%w: %d", ErrTooManyErrors, len(res.Errors))
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != root && opts.ShouldExclude(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if opts.MaxRecords > 0 && len(res.Records) >= opts.MaxRecords {
			res.Truncated = true
			return fs.SkipAll
		}

		info, err := d.Info()
		if err != nil {
			res.Errors = append(res.Errors, PathError{Path: path, Message: err.Error()})
			return nil
		}

		nextID++
		ids[path] = nextID
		parent := record.TopLevel()
		if path != root {
			if pid, ok := ids[filepath.Dir(path)]; ok {
				parent = record.ParentOf(pid)
			}
		}

		var size int64
		if info.Mode().IsRegular() {
			size = info.Size()
		}

		name := d.Name()
		if path == root {
			name = root
		}
		res.Records = append(res.Records, record.FileRecord{
			ID:         nextID,
			Name:       name,
			Categories: categoriesFor(d.Name(), info.Mode()),
			Parent:     parent,
			Size:       size,
		})
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}
	return res, nil
}

// categoriesFor derives categories from the file mode and extension.
func categoriesFor(name string, mode fs.FileMode) []string {
	switch {
	case mode.IsDir():
		return []string{"dir"}
	case mode&fs.ModeSymlink != 0:
		return []string{"symlink"}
	case !mode.IsRegular():
		return []string{"other"}
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return []string{"file"}
	}
	return []string{ext}
}
