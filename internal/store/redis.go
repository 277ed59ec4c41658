package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"tachpae-storefront/internal/domain"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedis builds a Store backed by Redis. Keys expire after ttl so abandoned
// sessions age out; a ttl of zero keeps them forever.
func NewRedis(client *redis.Client, ttl time.Duration, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisStore{client: client, ttl: ttl, logger: logger}
}

func (s *redisStore) LoadCart(ctx context.Context, visitorID, scopeKey string) (domain.Cart, error) {
	key := cartStorageKey(visitorID, scopeKey)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Printf("store: corrupt cart snapshot key=%s error=%v, starting empty", key, err)
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *redisStore) SaveCart(ctx context.Context, visitorID, scopeKey string, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartStorageKey(visitorID, scopeKey), raw, s.ttl).Err()
}

func (s *redisStore) LoadVisitState(ctx context.Context, visitorID string) (domain.VisitState, error) {
	key := visitStorageKey(visitorID)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.VisitState{}, nil
		}
		return domain.VisitState{}, err
	}

	var state domain.VisitState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Printf("store: corrupt visit state key=%s error=%v, starting empty", key, err)
		return domain.VisitState{}, nil
	}
	return state, nil
}

func (s *redisStore) SaveVisitState(ctx context.Context, visitorID string, state domain.VisitState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, visitStorageKey(visitorID), raw, s.ttl).Err()
}
