package docstore

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used when no cloud credentials are
// configured, and the only backend exercised by tests. It mirrors the
// Firestore backend's observable semantics exactly: merge writes, literal
// replacement, and delta resolution against the previous stored value.
//
// Each instance owns its data; inject one per component graph rather than
// sharing a process-wide store.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		return Document{}, nil
	}
	doc, ok := col[id]
	if !ok {
		return Document{}, nil
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]Document)
		s.collections[collection] = col
	}
	prev := col[id]

	var next Document
	if merge {
		next = cloneDocument(prev)
	} else {
		next = Document{}
	}
	for k, f := range fields {
		if f.IsDelta() {
			next[k] = asInt64(prev[k]) + f.Amount()
			continue
		}
		next[k] = cloneValue(normalize(f.Value()))
	}
	col[id] = next
	return nil
}

// normalize maps write values onto the canonical types the Firestore
// backend reads back, so both backends expose identical documents.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func cloneDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
