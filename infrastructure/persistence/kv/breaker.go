package kv

import (
	"context"

	"github.com/coltranesx/Project-Area/application/ports"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/resilience"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerStore guards a remote KeyValueStore with a circuit breaker. While
// the circuit is open calls fail fast with an UNAVAILABLE AppError.
type BreakerStore struct {
	next ports.KeyValueStore
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps next. cb should treat ports.ErrNotFound as a success;
// see NewStoreBreaker.
func NewBreakerStore(next ports.KeyValueStore, cb *gobreaker.CircuitBreaker) *BreakerStore {
	return &BreakerStore{next: next, cb: cb}
}

// Get implements ports.KeyValueStore
func (s *BreakerStore) Get(ctx context.Context, key ports.Key) ([]byte, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.next.Get(ctx, key)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return v.([]byte), nil
}

// Set implements ports.KeyValueStore
func (s *BreakerStore) Set(ctx context.Context, key ports.Key, value []byte) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Set(ctx, key, value)
	})
	return s.translate(err)
}

// Delete implements ports.KeyValueStore
func (s *BreakerStore) Delete(ctx context.Context, key ports.Key) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Delete(ctx, key)
	})
	return s.translate(err)
}

// Close closes the wrapped store
func (s *BreakerStore) Close() error {
	return s.next.Close()
}

func (s *BreakerStore) translate(err error) error {
	if resilience.IsOpen(err) {
		return apperrors.NewUnavailableError(s.cb.Name()).WithCause(err)
	}
	return err
}

// NewStoreBreaker creates a breaker for a key-value store
func NewStoreBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return resilience.NewBreaker(resilience.DefaultBreakerConfig(name), logger, ports.ErrNotFound)
}
