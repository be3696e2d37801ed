package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countQuery struct{ N int }

func (q countQuery) Validate() error {
	if q.N < 0 {
		return errors.New("n must not be negative")
	}
	return nil
}

func TestQueryBus(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(countQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (any, error) {
		return q.(countQuery).N * 2, nil
	})))
	assert.Error(t, b.Register(countQuery{}, QueryHandlerFunc(nil)))

	tests := []struct {
		name    string
		query   Query
		want    any
		wantErr error
	}{
		{name: "dispatches", query: countQuery{N: 21}, want: 42},
		{name: "validates", query: countQuery{N: -1}, wantErr: errors.New("n must not be negative")},
		{name: "unknown", query: struct{ countQuery }{}, wantErr: ErrHandlerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Ask(context.Background(), tt.query)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrHandlerNotFound) {
					assert.ErrorIs(t, err, ErrHandlerNotFound)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAs(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(countQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (any, error) {
		return q.(countQuery).N + 1, nil
	})))

	n, err := As[int](context.Background(), b, countQuery{N: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = As[string](context.Background(), b, countQuery{N: 1})
	assert.ErrorIs(t, err, ErrUnexpectedResult)

	_, err = As[int](context.Background(), b, countQuery{N: -1})
	assert.Error(t, err)
}
