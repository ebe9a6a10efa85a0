package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage backend for tests and short-lived
// tools. Records are held in insertion order; insertion order is timestamp
// order in practice since records are created at recording time.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists one record.
func (m *MemoryStorage) Store(ctx context.Context, record *Record) error {
	if err := ctx.Err(); err != nil {
		return NewStorageError("memory", "store", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return NewStorageError("memory", "store", ErrClosed)
	}

	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

// Get retrieves a record by ID.
func (m *MemoryStorage) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError("memory", "get", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.ID == id {
			copied := *record
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// List returns matching records, newest first.
func (m *MemoryStorage) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError("memory", "list", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for i := len(m.records) - 1; i >= 0; i-- {
		record := m.records[i]
		if filter.Principal != "" && record.Principal != filter.Principal {
			continue
		}
		if filter.Effect != "" && record.Effect != filter.Effect {
			continue
		}
		if !filter.Since.IsZero() && record.Timestamp.Before(filter.Since) {
			continue
		}

		copied := *record
		out = append(out, &copied)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStorage) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, NewStorageError("memory", "count", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

// DeleteOlderThan removes records older than cutoff.
func (m *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, NewStorageError("memory", "delete_older_than", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, record := range m.records {
		if record.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	m.records = kept
	return deleted, nil
}

// DeleteOldest trims the store down to keep records.
func (m *MemoryStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, NewStorageError("memory", "delete_oldest", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	excess := int64(len(m.records)) - keep
	if excess <= 0 {
		return 0, nil
	}
	m.records = append([]*Record(nil), m.records[excess:]...)
	return excess, nil
}

// Close marks the store closed.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.records = nil
	return nil
}
