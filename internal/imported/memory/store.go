package memory

import (
	"context"
	"sync"

	"github.com/grafline/tracking/internal/orders/ports"
)

// Store keeps imported-message records in memory for tests and local runs.
type Store struct {
	mu    sync.RWMutex
	items map[string]ports.ImportedMessage
}

// NewStore creates a new in-memory imported-message store.
func NewStore() *Store {
	return &Store{items: make(map[string]ports.ImportedMessage)}
}

// Get returns the record for a message ID if present.
func (s *Store) Get(_ context.Context, messageID string) (*ports.ImportedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.items[messageID]
	if !ok {
		return nil, nil
	}
	copy := record
	return &copy, nil
}

// Record stores the message-to-order link; first writer wins.
func (s *Store) Record(_ context.Context, record ports.ImportedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[record.MessageID]; !ok {
		s.items[record.MessageID] = record
	}
	return nil
}
