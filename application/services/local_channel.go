package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/core/validators"
	pkgerrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// StorageKey is the record key of the local-storage channel.
const StorageKey = "proje-area-data-v5"

// Fallback reasons reported to metrics.
const (
	FallbackMalformed  = "malformed"
	FallbackIncomplete = "incomplete"
	FallbackReadError  = "read_error"
)

// LocalChannel persists one workspace's document in a key-value store.
// It keeps no state between calls.
type LocalChannel struct {
	store       ports.KeyValueStore
	workspaceID string
	metrics     ports.Metrics
	logger      *zap.Logger
}

// NewLocalChannel creates the local-storage channel for a workspace
func NewLocalChannel(store ports.KeyValueStore, workspaceID string, metrics ports.Metrics, logger *zap.Logger) *LocalChannel {
	return &LocalChannel{
		store:       store,
		workspaceID: workspaceID,
		metrics:     metrics,
		logger:      logger.With(zap.String("workspaceID", workspaceID)),
	}
}

// Key returns the store key of this workspace's record
func (c *LocalChannel) Key() ports.Key {
	return ports.Key{"workspace", c.workspaceID, StorageKey}
}

// LoadOrDefault returns the cached document, or the seed document when the
// cache is empty, unreadable or invalid. It never fails.
func (c *LocalChannel) LoadOrDefault(ctx context.Context) aggregates.Document {
	data, err := c.store.Get(ctx, c.Key())
	if errors.Is(err, ports.ErrNotFound) {
		return aggregates.DefaultDocument()
	}
	if err != nil {
		c.logger.Error("Failed to read cached document, using default", zap.Error(err))
		c.metrics.RecordFallback(FallbackReadError)
		return aggregates.DefaultDocument()
	}

	doc, err := validators.ValidateDocument(data)
	if err != nil {
		corrupt := pkgerrors.NewStorageCorruptError("cached document rejected", err)
		if errors.Is(err, validators.ErrIncompleteDocument) {
			c.logger.Warn("Cached document is incomplete, using default", zap.Error(corrupt))
			c.metrics.RecordFallback(FallbackIncomplete)
		} else {
			c.logger.Error("Cached document is unreadable, using default", zap.Error(corrupt))
			c.metrics.RecordFallback(FallbackMalformed)
		}
		return aggregates.DefaultDocument()
	}
	return doc
}

// Save writes doc to the cache as compact JSON
func (c *LocalChannel) Save(ctx context.Context, doc aggregates.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := c.store.Set(ctx, c.Key(), data); err != nil {
		return pkgerrors.NewStorageError("save", err)
	}
	c.logger.Debug("Document cached", zap.Int("bytes", len(data)))
	return nil
}

// Clear removes the cached record
func (c *LocalChannel) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.Key()); err != nil {
		return pkgerrors.NewStorageError("clear", err)
	}
	return nil
}
