package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func sampleRecord(id, principal, effect string, age time.Duration) *Record {
	return &Record{
		ID:           id,
		Timestamp:    time.Now().UTC().Add(-age),
		Principal:    principal,
		Action:       "read",
		Resource:     "doc",
		Effect:       effect,
		ReasonCode:   1,
		RulesChecked: 2,
		Duration:     25 * time.Microsecond,
	}
}

func TestMemoryStorage_StoreAndGet(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	record := sampleRecord("rec-1", "alice", "allow", 0)
	record.Context = map[string]any{"role": "admin", "level": int64(5)}

	if err := store.Store(ctx, record); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	got, err := store.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Principal != "alice" || got.Effect != "allow" {
		t.Fatalf("got = %+v, want stored record", got)
	}
	if got.Context["role"] != "admin" {
		t.Fatalf("Context = %v, want role preserved", got.Context)
	}

	// Mutating the returned copy must not affect the store.
	got.Principal = "tampered"
	again, _ := store.Get(ctx, "rec-1")
	if again.Principal != "alice" {
		t.Fatal("Get() should return copies")
	}

	if _, err := store.Get(ctx, "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(absent) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStorage_List(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		principal := "alice"
		effect := "allow"
		if i%2 == 1 {
			principal = "bob"
			effect = "deny"
		}
		record := sampleRecord(fmt.Sprintf("rec-%d", i), principal, effect, time.Duration(5-i)*time.Hour)
		if err := store.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []string
	}{
		{"all newest first", ListFilter{}, []string{"rec-4", "rec-3", "rec-2", "rec-1", "rec-0"}},
		{"by principal", ListFilter{Principal: "bob"}, []string{"rec-3", "rec-1"}},
		{"by effect", ListFilter{Effect: "deny"}, []string{"rec-3", "rec-1"}},
		{"with limit", ListFilter{Limit: 2}, []string{"rec-4", "rec-3"}},
		{"since cutoff", ListFilter{Since: time.Now().UTC().Add(-150 * time.Minute)}, []string{"rec-4", "rec-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(records), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if records[i].ID != want {
					t.Fatalf("records[%d].ID = %s, want %s", i, records[i].ID, want)
				}
			}
		})
	}
}

func TestMemoryStorage_Retention(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		record := sampleRecord(fmt.Sprintf("rec-%d", i), "alice", "allow", time.Duration(6-i)*24*time.Hour)
		if err := store.Store(ctx, record); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	deleted, err := store.DeleteOlderThan(ctx, time.Now().UTC().Add(-4*24*time.Hour-time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	deleted, err = store.DeleteOldest(ctx, 2)
	if err != nil {
		t.Fatalf("DeleteOldest() failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Count() = %d, want 2", count)
	}

	// The newest records survived.
	records, _ := store.List(ctx, ListFilter{})
	if records[0].ID != "rec-5" || records[1].ID != "rec-4" {
		t.Fatalf("surviving records = %s, %s; want rec-5, rec-4", records[0].ID, records[1].ID)
	}
}

func TestMemoryStorage_Closed(t *testing.T) {
	store := NewMemoryStorage()
	store.Close()

	err := store.Store(context.Background(), sampleRecord("rec-1", "alice", "allow", 0))
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Store() after Close = %v, want ErrClosed", err)
	}
}
