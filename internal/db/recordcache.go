package db

import (
	"container/list"
	"database/sql"
	"sync"

	"github.com/michaelscutari/filetally/internal/record"
)

const recordCacheSize = 4096

type recordCacheEntry struct {
	key   int64
	value record.FileRecord
}

// recordCache is an LRU of record lookups by id. Snapshots are read-only
// once finalized, so entries never go stale.
type recordCache struct {
	mu    sync.Mutex
	max   int
	ll    *list.List
	items map[int64]*list.Element
}

func newRecordCache(max int) *recordCache {
	return &recordCache{
		max:   max,
		ll:    list.New(),
		items: make(map[int64]*list.Element),
	}
}

func (c *recordCache) Get(key int64) (record.FileRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(recordCacheEntry).value, true
	}
	return record.FileRecord{}, false
}

func (c *recordCache) Set(key int64, value record.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value = recordCacheEntry{key: key, value: value}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(recordCacheEntry{key: key, value: value})
	c.items[key] = el

	if c.ll.Len() > c.max {
		last := c.ll.Back()
		if last == nil {
			return
		}
		c.ll.Remove(last)
		delete(c.items, last.Value.(recordCacheEntry).key)
	}
}

func (c *recordCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

var dbRecordCaches sync.Map // map[*sql.DB]*recordCache

func getRecordCache(db *sql.DB) *recordCache {
	if db == nil {
		return nil
	}
	if existing, ok := dbRecordCaches.Load(db); ok {
		return existing.(*recordCache)
	}
	cache := newRecordCache(recordCacheSize)
	actual, _ := dbRecordCaches.LoadOrStore(db, cache)
	return actual.(*recordCache)
}
