package githubstore

import (
	"errors"
	"fmt"
)

// Error taxonomy for the remote store. Every failure from the client is
// one of these, wrapped with operation context; callers dispatch with
// errors.Is.
var (
	// ErrNetwork is a transport failure or a non-2xx response without a
	// more specific meaning.
	ErrNetwork = errors.New("store: network error")

	// ErrNotFound means the requested file is absent. List tables treat
	// this as an empty table.
	ErrNotFound = errors.New("store: file not found")

	// ErrAuth means the write credential was rejected. The client
	// invalidates the cached token before surfacing this.
	ErrAuth = errors.New("store: credential rejected")

	// ErrConflict means the revision used for a write is stale. Callers
	// must re-fetch and redo the edit, never retry with the old data.
	ErrConflict = errors.New("store: stale revision")
)

// StoreError carries the HTTP detail behind a taxonomy error.
type StoreError struct {
	Kind     error  // one of the sentinel errors above
	Op       string // "fetch", "fetch_for_write", "write", "token"
	Filename string
	Status   int    // HTTP status, 0 on transport failure
	Message  string // remote error body message, if any
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %v (status %d: %s)", e.Op, e.Filename, e.Kind, e.Status, e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %v (status %d)", e.Op, e.Filename, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Filename, e.Kind)
}

func (e *StoreError) Unwrap() error {
	return e.Kind
}

func newStoreError(kind error, op, filename string, status int, message string) *StoreError {
	return &StoreError{Kind: kind, Op: op, Filename: filename, Status: status, Message: message}
}

// classifyStatus maps a Contents API response code to the taxonomy.
func classifyStatus(status int) error {
	switch status {
	case 401, 403:
		return ErrAuth
	case 404:
		return ErrNotFound
	case 409, 422:
		return ErrConflict
	default:
		return ErrNetwork
	}
}
