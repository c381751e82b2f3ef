package db

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MemStore is an in-memory Store used by tests and local development. It
// mirrors the Firestore adapter's observable behavior: merge semantics,
// server-assigned timestamps, snapshot-then-batch deletes, ID-ordered
// listing with cursors.
type MemStore struct {
	mu     sync.Mutex
	data   map[string]map[string]map[string]interface{}
	order  map[string][]string
	nextID int
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		data:  make(map[string]map[string]map[string]interface{}),
		order: make(map[string][]string),
	}
}

func (s *MemStore) coll(name string) map[string]map[string]interface{} {
	c, ok := s.data[name]
	if !ok {
		c = make(map[string]map[string]interface{})
		s.data[name] = c
	}
	return c
}

// resolveFields deep-copies fields, replacing the ServerTimestamp sentinel
// with the current time.
func resolveFields(fields map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case serverTimestamp:
			out[k] = now
		case map[string]interface{}:
			out[k] = resolveFields(val, now)
		case []string:
			out[k] = append([]string(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = copyDoc(val)
		case []string:
			out[k] = append([]string(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

// mergeInto merges src into dst recursively, matching Firestore MergeAll:
// nested maps merge field by field, everything else (arrays included)
// replaces.
func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		if sub, ok := v.(map[string]interface{}); ok {
			if existing, ok := dst[k].(map[string]interface{}); ok {
				mergeInto(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func (s *MemStore) Get(_ context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return copyDoc(doc), nil
}

func (s *MemStore) Set(_ context.Context, collection, id string, fields map[string]interface{}, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(collection)
	resolved := resolveFields(fields, time.Now().UTC())
	existing, ok := c[id]
	if !ok {
		s.order[collection] = append(s.order[collection], id)
		c[id] = resolved
		return nil
	}
	if merge {
		mergeInto(existing, resolved)
	} else {
		c[id] = resolved
	}
	return nil
}

func (s *MemStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.coll(collection)[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	mergeInto(doc, resolveFields(fields, time.Now().UTC()))
	return nil
}

func (s *MemStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(collection, id)
	return nil
}

func (s *MemStore) deleteLocked(collection, id string) {
	delete(s.coll(collection), id)
	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

func (s *MemStore) Add(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "doc" + strconv.Itoa(s.nextID)
	s.coll(collection)[id] = resolveFields(fields, time.Now().UTC())
	s.order[collection] = append(s.order[collection], id)
	return id, nil
}

func matches(doc map[string]interface{}, filters []Where) bool {
	for _, w := range filters {
		cmp, ok := compareValues(doc[w.Field], w.Value)
		switch w.Op {
		case "==":
			if !ok || cmp != 0 {
				return false
			}
		case "<":
			if !ok || cmp >= 0 {
				return false
			}
		case "<=":
			if !ok || cmp > 0 {
				return false
			}
		case ">":
			if !ok || cmp <= 0 {
				return false
			}
		case ">=":
			if !ok || cmp < 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders two document values of the same logical type.
func compareValues(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	}
	af, ok := toFloat(a)
	if !ok {
		return 0, false
	}
	bf, ok := toFloat(b)
	if !ok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (s *MemStore) List(_ context.Context, collection string, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	ids := append([]string(nil), s.order[collection]...)
	sort.Strings(ids)

	var docs []Document
	for _, id := range ids {
		if matches(c[id], q.Where) {
			docs = append(docs, Document{ID: id, Data: copyDoc(c[id])})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, ok := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if !ok {
				return false
			}
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	} else if q.Desc {
		for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
			docs[i], docs[j] = docs[j], docs[i]
		}
	}

	if q.StartAfter != "" {
		start := -1
		for i, doc := range docs {
			if doc.ID == q.StartAfter {
				start = i + 1
				break
			}
		}
		if start < 0 {
			if q.OrderBy != "" {
				// The cursor document is gone and its sort key with it;
				// an empty page stops the caller instead of replaying rows.
				return nil, nil
			}
			// ID-ordered listing: resume past where the cursor would sort.
			start = len(docs)
			for i, doc := range docs {
				if (!q.Desc && doc.ID > q.StartAfter) || (q.Desc && doc.ID < q.StartAfter) {
					start = i
					break
				}
			}
		}
		docs = docs[start:]
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *MemStore) DeleteMany(_ context.Context, collection string, filters []Where) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	var matched []string
	for _, id := range s.order[collection] {
		if matches(c[id], filters) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		s.deleteLocked(collection, id)
	}
	return len(matched), nil
}

func (s *MemStore) Count(_ context.Context, collection string, filters []Where) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, doc := range s.coll(collection) {
		if matches(doc, filters) {
			count++
		}
	}
	return count, nil
}
