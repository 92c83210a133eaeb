package anchor

import (
	"context"
	"sync"
)

// Record is the persisted form of the anchor: two integers and the frozen
// flag. A zero Record (Frozen=false) means nothing has been frozen yet.
type Record struct {
	Fifths   int  `json:"fifths"`
	Diatonic int  `json:"diatonic"`
	Frozen   bool `json:"frozen"`
}

// Anchor returns the anchor held by the record.
func (r Record) Anchor() RootAnchor {
	return RootAnchor{FifthsFromC: r.Fifths, DiatonicNumber: r.Diatonic}
}

// Store persists the frozen anchor. Implemented by MemoryStore and by the
// SQLite store in internal/store.
type Store interface {
	// Load returns the stored record, or a zero Record if none exists.
	Load(ctx context.Context) (Record, error)

	// Save replaces the stored record.
	Save(ctx context.Context, rec Record) error

	// Reset forgets the record so the next resolution recomputes it.
	// Debug and test use only.
	Reset(ctx context.Context) error
}

// MemoryStore keeps the record in process memory.
// Thread-safety: all methods are safe for concurrent use.
type MemoryStore struct {
	mu  sync.Mutex
	rec Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	return nil
}

func (m *MemoryStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = Record{}
	return nil
}
