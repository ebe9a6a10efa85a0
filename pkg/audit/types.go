package audit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Record is one audited policy decision.
type Record struct {
	// ID is a UUID v4 assigned at recording time.
	ID string `json:"id"`

	// Timestamp is the wall-clock time the decision was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Identity triple of the evaluated request.
	Principal string `json:"principal"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`

	// Context is the request's attribute map flattened to JSON-friendly
	// primitives.
	Context map[string]any `json:"context,omitempty"`

	// Outcome.
	Effect     string `json:"effect"`
	ReasonCode uint32 `json:"reason_code"`

	// Work counters from the evaluation.
	RulesChecked   int `json:"rules_checked"`
	ConditionEvals int `json:"condition_evals"`

	// Duration is how long the evaluation took.
	Duration time.Duration `json:"duration"`

	// Error holds the evaluation error message when the engine rejected the
	// request instead of deciding it.
	Error string `json:"error,omitempty"`
}

// ListFilter narrows a List query.
type ListFilter struct {
	// Principal filters by exact principal; empty matches all.
	Principal string

	// Effect filters by decision effect ("allow" or "deny"); empty matches
	// all.
	Effect string

	// Since excludes records older than this time when non-zero.
	Since time.Time

	// Limit caps the number of returned records; 0 means no cap. Results
	// are newest first.
	Limit int
}

// Storage persists audit records.
type Storage interface {
	// Store persists one record.
	Store(ctx context.Context, record *Record) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records with a timestamp before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes the oldest records until at most keep remain and
	// returns how many were removed.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases the backend.
	Close() error
}

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("audit record not found")

// ErrClosed is returned for operations on a closed backend.
var ErrClosed = errors.New("audit storage closed")

// StorageError wraps a backend failure with the backend and operation that
// produced it.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
