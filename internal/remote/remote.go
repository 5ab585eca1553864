// Package remote abstracts the remote document store that backs the projects
// collection when it is reachable.
package remote

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the remote store could not be reached.
var ErrUnavailable = errors.New("remote store unavailable")

// Document is one stored record and the identifier the store assigned to it.
type Document struct {
	ID   string
	Data map[string]any
}

// Collection is the subset of a document-store client the site relies on.
type Collection interface {
	// Add inserts data and returns the identifier assigned by the store.
	Add(ctx context.Context, data map[string]any) (string, error)
	// All returns every document in the collection, in no particular order.
	All(ctx context.Context) ([]Document, error)
	// Delete removes the document with the given id. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, id string) error
}
