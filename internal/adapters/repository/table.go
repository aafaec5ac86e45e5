package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// table is the shared machinery behind every list repository: one JSON
// file holding an ordered slice of entities, guarded by a revision SHA.
//
// The revision is cached for the duration of an edit session so repeated
// edits don't round-trip the Contents API for the SHA; the cache is
// dropped on conflict so the next edit starts from a fresh read. Only
// writes from this process move the revision, per the single-admin
// operating envelope.
type table[T any] struct {
	store    ports.RemoteStore
	filename string
	logger   *logger.Logger

	mu       sync.Mutex
	revision string
}

func newTable[T any](store ports.RemoteStore, filename string, appLogger *logger.Logger) *table[T] {
	return &table[T]{
		store:    store,
		filename: filename,
		logger:   appLogger.WithFields("table", filename),
	}
}

// getAll reads the table through the public path. A missing file is an
// empty table, not an error.
func (t *table[T]) getAll(ctx context.Context) ([]T, error) {
	raw, err := t.store.FetchPublic(ctx, t.filename)
	if err != nil {
		if errors.Is(err, githubstore.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", t.filename, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.filename, err)
	}
	return items, nil
}

// getForEdit reads the table plus the revision needed for the next
// write. While a cached revision is live the content comes from the
// public path; otherwise both come from the Contents API. A missing file
// yields an empty table with an empty revision, which the write path
// treats as file creation.
func (t *table[T]) getForEdit(ctx context.Context) ([]T, string, error) {
	t.mu.Lock()
	cached := t.revision
	t.mu.Unlock()

	if cached != "" {
		items, err := t.getAll(ctx)
		if err != nil {
			return nil, "", err
		}
		return items, cached, nil
	}

	raw, revision, err := t.store.FetchForWrite(ctx, t.filename)
	if err != nil {
		if errors.Is(err, githubstore.ErrNotFound) {
			return []T{}, "", nil
		}
		return nil, "", fmt.Errorf("read %s for edit: %w", t.filename, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", t.filename, err)
	}

	t.mu.Lock()
	t.revision = revision
	t.mu.Unlock()

	return items, revision, nil
}

// save replaces the whole table. On success the returned revision
// becomes the cached one; a stale-revision conflict drops the cache so
// the caller's re-fetch starts clean.
func (t *table[T]) save(ctx context.Context, items []T, revision, message string) (string, error) {
	newRevision, err := t.store.Write(ctx, t.filename, items, revision, message)
	if err != nil {
		if errors.Is(err, githubstore.ErrConflict) || errors.Is(err, githubstore.ErrAuth) {
			t.invalidate()
		}
		return "", fmt.Errorf("write %s: %w", t.filename, err)
	}

	t.mu.Lock()
	t.revision = newRevision
	t.mu.Unlock()

	return newRevision, nil
}

// invalidate drops the cached revision.
func (t *table[T]) invalidate() {
	t.mu.Lock()
	t.revision = ""
	t.mu.Unlock()
}
