package ownership

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for embedding and tests.
//
// The mutex protects the two fields against concurrent readers; serial
// execution of guarded mutations remains the host's job.
type MemoryStore struct {
	mu          sync.RWMutex
	owner       OwnerID
	initialized bool
}

// NewMemoryStore creates an empty, uninitialized store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Owner returns the stored owner.
func (s *MemoryStore) Owner(_ context.Context) (OwnerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner, nil
}

// SetOwner replaces the stored owner and marks the store initialized.
func (s *MemoryStore) SetOwner(_ context.Context, owner OwnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	s.initialized = true
	return nil
}

// Initialized reports whether the store has ever been written. A renounced
// store stays initialized — the zero owner alone cannot tell the two apart,
// and hosts must not re-run Initialize after a renouncement.
func (s *MemoryStore) Initialized(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized, nil
}

// MemorySink records transfers in call order. Useful for embedding hosts
// that only need the history in memory, and for tests asserting on emitted
// notifications.
type MemorySink struct {
	mu        sync.Mutex
	transfers []Transfer
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// OwnershipTransferred appends the transfer to the recorded history.
func (s *MemorySink) OwnershipTransferred(_ context.Context, t Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, t)
	return nil
}

// Transfers returns a copy of the recorded transfers in emission order.
func (s *MemorySink) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}
