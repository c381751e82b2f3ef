package db

import (
	"context"
	"errors"
)

// Logical collection names.
const (
	UsersCollection     = "users"
	LicensesCollection  = "licenses"
	ConfigCollection    = "config"
	AdminLogsCollection = "admin_logs"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value. Stores replace it with the
// database write time, so timestamps assigned through it are monotonic with
// respect to the store, not the caller's clock.
var ServerTimestamp = serverTimestamp{}

// Document is one stored document together with its ID.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Where is a single field filter, mirroring a Firestore query clause.
// Op is one of "==", "<", "<=", ">", ">=".
type Where struct {
	Field string
	Op    string
	Value interface{}
}

// Query describes a list operation. StartAfter is the ID of the last
// document from the previous page; pages are ordered by document ID unless
// OrderBy names a field.
type Query struct {
	Where      []Where
	OrderBy    string
	Desc       bool
	Limit      int
	StartAfter string
}

// Store provides uniform document access over the logical collections. It
// owns physical storage only; business invariants live in the services that
// use it. Individual calls are atomic at the single-document level, but no
// atomicity is promised across a load-then-write sequence.
type Store interface {
	// Get returns the document's fields, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)
	// List returns an ordered page of documents.
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	// Set writes a document. With merge=true unspecified fields are
	// preserved; with merge=false the document is replaced. Upserts.
	Set(ctx context.Context, collection, id string, fields map[string]interface{}, merge bool) error
	// Update modifies an existing document, failing with ErrNotFound if the
	// document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Add writes a document with a store-assigned ID and returns that ID.
	Add(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	// DeleteMany removes every document matching the filters and returns the
	// count removed. The selection is a snapshot read; the deletes commit as
	// a single batch.
	DeleteMany(ctx context.Context, collection string, filters []Where) (int, error)
	// Count returns the number of documents matching the filters.
	Count(ctx context.Context, collection string, filters []Where) (int, error)
}
