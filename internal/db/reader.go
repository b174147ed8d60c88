package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/michaelscutari/filetally/internal/record"
)

// DisplayEntry combines a record with its rollup for display.
type DisplayEntry struct {
	ID          int64
	Name        string
	Kind        record.Kind
	Size        int64 // Own size
	TotalSize   int64 // Subtree size (rollup)
	Descendants int64
	Depth       int
}

// LoadRecords returns all stored records in their original input order.
func LoadRecords(db *sql.DB) ([]record.FileRecord, error) {
	rows, err := db.Query(`SELECT id, name, parent_id, size FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]record.FileRecord, 0)
	byID := make(map[int64]int)
	for rows.Next() {
		var r record.FileRecord
		var parent sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &parent, &r.Size); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if parent.Valid {
			r.Parent = record.ParentOf(parent.Int64)
		}
		r.Categories = []string{}
		byID[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := db.Query(`SELECT record_id, category FROM record_categories ORDER BY record_id, position`)
	if err != nil {
		return nil, fmt.Errorf("category query failed: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var id int64
		var category string
		if err := catRows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if i, ok := byID[id]; ok {
			records[i].Categories = append(records[i].Categories, category)
		}
	}

	return records, catRows.Err()
}

// LoadChildren loads the children of parent joined with rollup data. A
// top-level parent also returns records whose parent id does not exist,
// matching how the tree attaches dangling references.
func LoadChildren(db *sql.DB, parent record.ParentRef, sortBy string, limit int) ([]DisplayEntry, error) {
	orderClause := "total_size DESC, r.seq ASC"
	switch sortBy {
	case "name":
		orderClause = "r.name ASC, r.seq ASC"
	case "own":
		orderClause = "r.size DESC, r.seq ASC"
	case "count", "desc":
		orderClause = "descendants DESC, r.seq ASC"
	case "input":
		orderClause = "r.seq ASC"
	}

	where := `r.parent_id IS NULL OR NOT EXISTS (SELECT 1 FROM records p WHERE p.id = r.parent_id)`
	args := []any{}
	if pid, ok := parent.ID(); ok {
		where = `r.parent_id = ?`
		args = append(args, pid)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT r.id, r.name, r.size,
		       COALESCE(u.total_size, r.size) as total_size,
		       COALESCE(u.descendants, 0) as descendants,
		       COALESCE(u.depth, 0) as depth
		FROM records r
		LEFT JOIN rollups u ON u.record_id = r.id
		WHERE %s
		ORDER BY %s
		LIMIT ?
	`, where, orderClause)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []DisplayEntry
	for rows.Next() {
		var e DisplayEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Size, &e.TotalSize, &e.Descendants, &e.Depth); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Kind = record.KindLeaf
		if e.Descendants > 0 {
			e.Kind = record.KindInternal
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetRecord retrieves a record without its categories. It returns nil when
// the id is unknown.
func GetRecord(db *sql.DB, id int64) (*record.FileRecord, error) {
	cache := getRecordCache(db)
	if cache != nil {
		if cached, ok := cache.Get(id); ok {
			return &cached, nil
		}
	}

	r := record.FileRecord{ID: id}
	var parent sql.NullInt64
	err := db.QueryRow(`SELECT name, parent_id, size FROM records WHERE id = ?`, id).Scan(&r.Name, &parent, &r.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		r.Parent = record.ParentOf(parent.Int64)
	}

	if cache != nil {
		cache.Set(id, r)
	}
	return &r, nil
}

// GetRollup retrieves rollup data for a record. It returns nil when the
// record has no rollup.
func GetRollup(db *sql.DB, id int64) (*record.Rollup, error) {
	r := record.Rollup{RecordID: id}
	err := db.QueryRow(`
		SELECT total_size, descendants, depth
		FROM rollups WHERE record_id = ?
	`, id).Scan(&r.TotalSize, &r.Descendants, &r.Depth)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// GetLoadMeta retrieves import metadata.
func GetLoadMeta(db *sql.DB) (*record.LoadMeta, error) {
	var m record.LoadMeta
	var startTime, endTime int64

	err := db.QueryRow(`
		SELECT load_id, source, start_time, COALESCE(end_time, 0), record_count, leaf_count,
		       category_count, total_size, COALESCE(largest_id, 0), largest_size
		FROM load_meta WHERE id = 1
	`).Scan(&m.LoadID, &m.Source, &startTime, &endTime, &m.RecordCount, &m.LeafCount,
		&m.CategoryCount, &m.TotalSize, &m.LargestID, &m.LargestSize)

	if err != nil {
		return nil, err
	}

	m.StartTime = time.Unix(startTime, 0)
	if endTime > 0 {
		m.EndTime = time.Unix(endTime, 0)
	}

	return &m, nil
}

// CategoryRow is one category with its occurrence count.
type CategoryRow struct {
	Category string
	Count    int64
}

// CategoryCounts returns categories by descending occurrence count, ties by
// name. limit <= 0 returns all of them.
func CategoryCounts(db *sql.DB, limit int) ([]CategoryRow, error) {
	query := `
		SELECT category, COUNT(*) AS n
		FROM record_categories
		GROUP BY category
		ORDER BY n DESC, category ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
