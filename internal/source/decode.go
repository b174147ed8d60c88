// Package source produces record lists for the aggregators: decoded from
// JSON documents or collected by walking a real directory.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/michaelscutari/filetally/internal/record"
)

// jsonRecord is the wire shape of a record. Parent uses record.NoParent for
// top-level entries.
type jsonRecord struct {
	ID         *int64   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Parent     *int64   `json:"parent"`
	Size       int64    `json:"size"`
}

func (j jsonRecord) toRecord() (record.FileRecord, error) {
	if j.ID == nil {
		return record.FileRecord{}, fmt.Errorf("record %q has no id", j.Name)
	}
	parent := record.TopLevel()
	if j.Parent != nil {
		parent = record.ParentFromInt(*j.Parent)
	}
	cats := j.Categories
	if cats == nil {
		cats = []string{}
	}
	return record.FileRecord{
		ID:         *j.ID,
		Name:       j.Name,
		Categories: cats,
		Parent:     parent,
		Size:       j.Size,
	}, nil
}

// DecodeJSON reads a JSON array of records.
func DecodeJSON(r io.Reader) ([]record.FileRecord, error) {
	var raw []jsonRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]record.FileRecord, 0, len(raw))
	for i, j := range raw {
		rec, err := j.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeJSONL reads one JSON record per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) ([]record.FileRecord, error) {
	var records []record.FileRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var j jsonRecord
		if err := json.Unmarshal(text, &j); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode record: %w", line, err)
		}
		rec, err := j.toRecord()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// EncodeJSON writes records in the format DecodeJSON reads.
func EncodeJSON(w io.Writer, records []record.FileRecord) error {
	raw := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		id := r.ID
		parent := r.Parent.Int()
		raw = append(raw, jsonRecord{
			ID:         &id,
			Name:       r.Name,
			Categories: r.Categories,
			Parent:     &parent,
			Size:       r.Size,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// Open decodes a record file, choosing the format by extension.
func Open(path string) ([]record.FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return DecodeJSONL(f)
	case ".json":
		return DecodeJSON(f)
	default:
		return nil, fmt.Errorf("unsupported record format %q (expected .json, .jsonl or .ndjson)", filepath.Ext(path))
	}
}
