package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/observability"
)

// File is a file-based document store for CLI workflows.
// Documents are stored as JSON files in a config directory, one per ID.
type File struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFile creates a file-based document store.
// If baseDir is empty, defaults to ~/.config/seqline/documents/
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "seqline", "documents")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &File{baseDir: baseDir}, nil
}

func (f *File) docPath(id string) string {
	return filepath.Join(f.baseDir, id+".json")
}

func (f *File) Get(ctx context.Context, id string) (*diagram.Document, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnLoad(ctx, "file", id, false)
			return nil, nil
		}
		observability.Store().OnError(ctx, "file", "get", err)
		return nil, fmt.Errorf("read document file: %w", err)
	}

	d, err := diagram.UnmarshalDocument(data)
	if err != nil {
		observability.Store().OnError(ctx, "file", "get", err)
		return nil, fmt.Errorf("parse document %s: %w", id, err)
	}
	observability.Store().OnLoad(ctx, "file", id, true)
	return d, nil
}

func (f *File) Put(ctx context.Context, d *diagram.Document) error {
	if d.ID == "" {
		return ErrMissingID
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := diagram.MarshalDocument(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(f.docPath(d.ID), data, 0600); err != nil {
		observability.Store().OnError(ctx, "file", "put", err)
		return fmt.Errorf("write document file: %w", err)
	}
	observability.Store().OnSave(ctx, "file", d.ID, len(data))
	return nil
}

func (f *File) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.docPath(id)); err != nil && !os.IsNotExist(err) {
		observability.Store().OnError(ctx, "file", "delete", err)
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

func (f *File) List(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (f *File) Close() error { return nil }

// Path returns the base directory for document files.
func (f *File) Path() string { return f.baseDir }

var _ Store = (*File)(nil)
