package docstore

import (
	"context"
	"errors"
)

// Document is a schema-less field map stored under a collection+ID key.
type Document map[string]any

// Fields is the update payload for Set. Each value is either a Literal
// or a Delta; the variant is resolved by the backend, never inferred
// from the runtime type of a plain value.
type Fields map[string]Field

type fieldKind int

const (
	literalKind fieldKind = iota
	deltaKind
)

// Field is a tagged write value: a literal replacement or a numeric delta.
type Field struct {
	kind  fieldKind
	value any
	delta int64
}

// Literal wraps a value that replaces whatever is stored under the field.
func Literal(v any) Field { return Field{kind: literalKind, value: v} }

// Delta instructs the store to add n to the previously stored numeric
// value (0 if absent) instead of replacing it.
func Delta(n int64) Field { return Field{kind: deltaKind, delta: n} }

// IsDelta reports whether the field carries a delta rather than a literal.
func (f Field) IsDelta() bool { return f.kind == deltaKind }

// Value returns the literal payload. Meaningless for delta fields.
func (f Field) Value() any { return f.value }

// Amount returns the delta payload. Meaningless for literal fields.
func (f Field) Amount() int64 { return f.delta }

// ErrUnavailable marks backend I/O failures. Callers get the first
// failure as-is; no retries happen at this layer.
var ErrUnavailable = errors.New("document store unavailable")

// Store abstracts a document database with merge writes and delta fields.
//
// Get never fails on a missing document; it returns the empty Document.
// Set with merge=true touches only the named fields; with merge=false the
// literal fields fully replace the document, while delta fields are still
// resolved against the previous stored value.
//
// Get-then-Set is not atomic across the two calls. Callers that rewrite
// fields derived from a Get accept last-writer-wins under concurrency.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, fields Fields, merge bool) error
}
