package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBadgerStore(t *testing.T) *Badger {
	t.Helper()
	s, err := NewBadger(BadgerOptions{InMemory: true, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) ports.KeyValueStore{
		"memory": func(*testing.T) ports.KeyValueStore { return NewMemory() },
		"badger": func(t *testing.T) ports.KeyValueStore { return newBadgerStore(t) },
		"dynamodb": func(*testing.T) ports.KeyValueStore {
			return NewDynamoDB(newMockDynamo(), "project-area", zap.NewNop())
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			key := ports.Key{"workspace", "w1", "proje-area-data-v5"}

			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ports.ErrNotFound)

			require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))
			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, s.Set(ctx, key, []byte(`{"a":2}`)))
			got, err = s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(got))

			other := ports.Key{"workspace", "w2", "proje-area-data-v5"}
			_, err = s.Get(ctx, other)
			assert.ErrorIs(t, err, ports.ErrNotFound, "workspaces must not share keys")

			require.NoError(t, s.Delete(ctx, key))
			_, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, ports.ErrNotFound)

			assert.NoError(t, s.Delete(ctx, ports.Key{"no", "such", "key"}))
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	key := ports.Key{"k"}

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, key, value))
	value[0] = 'x'

	got, err := m.Get(ctx, key)
	require.NoError(t, err)
	got[1] = 'y'

	again, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestNewBadgerRequiresDir(t *testing.T) {
	_, err := NewBadger(BadgerOptions{})
	assert.Error(t, err)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := ports.Key{"workspace", "default", "proje-area-data-v5"}

	s, err := NewBadger(BadgerOptions{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, key, []byte("saved")))
	require.NoError(t, s.Close())

	s, err = NewBadger(BadgerOptions{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "saved", string(got))
}

func TestDynamoDBWrapsClientErrors(t *testing.T) {
	ctx := context.Background()
	client := newMockDynamo()
	client.err = errors.New("throttled")
	s := NewDynamoDB(client, "project-area", zap.NewNop())

	_, err := s.Get(ctx, ports.Key{"k"})
	assert.ErrorIs(t, err, client.err)
	assert.NotErrorIs(t, err, ports.ErrNotFound)

	assert.ErrorIs(t, s.Set(ctx, ports.Key{"k"}, []byte("v")), client.err)
	assert.ErrorIs(t, s.Delete(ctx, ports.Key{"k"}), client.err)
}

func TestDynamoDBItemLayout(t *testing.T) {
	ctx := context.Background()
	client := newMockDynamo()
	s := NewDynamoDB(client, "project-area", zap.NewNop())

	require.NoError(t, s.Set(ctx, ports.Key{"workspace", "w1", "doc"}, []byte("v")))

	item, ok := client.items["workspace:w1:doc|VALUE"]
	require.True(t, ok)
	assert.Contains(t, item, "Value")
	assert.Contains(t, item, "UpdatedAt")
	assert.Equal(t, "project-area", client.lastTable)
}
