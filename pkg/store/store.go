// Package store provides persistence for diagram documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI workflows
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable multi-document persistence
//
// # Architecture
//
// Documents are stored whole: one document per key, serialized as JSON
// (BSON for the Mongo backend). The Store interface supports:
//   - Get/Put/Delete by document ID
//   - Listing stored document IDs
//   - Graceful shutdown via Close
//
// Get returns nil, nil when a document does not exist so callers can
// distinguish "missing" from backend failures without sentinel checks.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemory()
//
//	// CLI
//	st, err := store.NewFile("")  // Uses ~/.config/seqline/documents/
//
//	// Production
//	st, err := store.NewRedis(ctx, store.RedisConfig{
//	    Addr: "localhost:6379",
//	})
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/seqline/pkg/diagram"
)

// Sentinel errors for store operations.
var (
	// ErrMissingID is returned by Put when the document carries no ID.
	// Stores never invent identifiers; callers assign them.
	ErrMissingID = errors.New("document has no ID")
)

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID.
	// Returns nil, nil if the document doesn't exist.
	Get(ctx context.Context, id string) (*diagram.Document, error)

	// Put stores a document under its own ID, replacing any previous version.
	Put(ctx context.Context, d *diagram.Document) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored documents.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
