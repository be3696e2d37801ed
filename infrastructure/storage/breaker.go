package storage

import (
	"context"
	"io"
	"os"

	"github.com/coltranesx/Project-Area/application/ports"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/resilience"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerStore guards a remote FileStore with a circuit breaker
type BreakerStore struct {
	next ports.FileStore
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps next with a breaker named name. Missing files do
// not count as failures.
func NewBreakerStore(next ports.FileStore, name string, logger *zap.Logger) *BreakerStore {
	return &BreakerStore{
		next: next,
		cb:   resilience.NewBreaker(resilience.DefaultBreakerConfig(name), logger, os.ErrNotExist),
	}
}

// Read implements ports.FileStore
func (s *BreakerStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.next.Read(ctx, path)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return v.(io.ReadCloser), nil
}

// Write implements ports.FileStore. Only opening the writer is guarded;
// upload failures surface from Close.
func (s *BreakerStore) Write(ctx context.Context, path string) (io.WriteCloser, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.next.Write(ctx, path)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return v.(io.WriteCloser), nil
}

// Delete implements ports.FileStore
func (s *BreakerStore) Delete(ctx context.Context, path string) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Delete(ctx, path)
	})
	return s.translate(err)
}

// Exists implements ports.FileStore
func (s *BreakerStore) Exists(ctx context.Context, path string) (bool, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.next.Exists(ctx, path)
	})
	if err != nil {
		return false, s.translate(err)
	}
	return v.(bool), nil
}

func (s *BreakerStore) translate(err error) error {
	if resilience.IsOpen(err) {
		return apperrors.NewUnavailableError(s.cb.Name()).WithCause(err)
	}
	return err
}
