package store

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"

	"tachpae-storefront/internal/domain"
)

// memoryStore keeps session state in-process. Used by tests and local
// tooling; behavior mirrors the Redis backend, including the soft-fail on
// corrupt payloads.
type memoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	logger *log.Logger
}

// NewMemory builds an in-process Store.
func NewMemory(logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &memoryStore{data: make(map[string][]byte), logger: logger}
}

func (s *memoryStore) LoadCart(_ context.Context, visitorID, scopeKey string) (domain.Cart, error) {
	key := cartStorageKey(visitorID, scopeKey)
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Printf("store: corrupt cart snapshot key=%s error=%v, starting empty", key, err)
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *memoryStore) SaveCart(_ context.Context, visitorID, scopeKey string, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[cartStorageKey(visitorID, scopeKey)] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) LoadVisitState(_ context.Context, visitorID string) (domain.VisitState, error) {
	key := visitStorageKey(visitorID)
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return domain.VisitState{}, nil
	}

	var state domain.VisitState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Printf("store: corrupt visit state key=%s error=%v, starting empty", key, err)
		return domain.VisitState{}, nil
	}
	return state, nil
}

func (s *memoryStore) SaveVisitState(_ context.Context, visitorID string, state domain.VisitState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[visitStorageKey(visitorID)] = raw
	s.mu.Unlock()
	return nil
}

// put injects a raw payload, bypassing marshaling. Test hook for exercising
// corrupt-snapshot recovery.
func (s *memoryStore) put(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
