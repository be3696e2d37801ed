package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Query is a read-only request against the editor state
type Query interface {
	Validate() error
}

// QueryHandler answers one query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (any, error)
}

// QueryHandlerFunc adapts a function to QueryHandler
type QueryHandlerFunc func(ctx context.Context, query Query) (any, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (any, error) {
	return f(ctx, query)
}

var (
	// ErrHandlerNotFound is returned by Ask for unregistered query types.
	ErrHandlerNotFound = errors.New("query handler not found")
	// ErrUnexpectedResult is returned by As when a handler answers with another type.
	ErrUnexpectedResult = errors.New("unexpected query result")
)

// QueryBus routes queries by their concrete type. Handlers never mutate
// state, so a query may run concurrently with commands.
type QueryBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]QueryHandler
}

// NewQueryBus returns an empty bus
func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[reflect.Type]QueryHandler)}
}

// Register binds handler to the type of query. Each type takes one handler.
func (b *QueryBus) Register(query Query, handler QueryHandler) error {
	key := reflect.TypeOf(query)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.handlers[key]; taken {
		return fmt.Errorf("handler already registered for query type %s", key.Name())
	}
	b.handlers[key] = handler
	return nil
}

func (b *QueryBus) lookup(query Query) (QueryHandler, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, ok := b.handlers[reflect.TypeOf(query)]
	return h, ok
}

// Ask validates query and returns what its handler answers
func (b *QueryBus) Ask(ctx context.Context, query Query) (any, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	h, ok := b.lookup(query)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}
	return h.Handle(ctx, query)
}

// As asks query on b and asserts the answer to R
func As[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %T answered %T", ErrUnexpectedResult, query, result)
	}
	return typed, nil
}
