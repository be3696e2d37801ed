package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/coltranesx/Project-Area/application/ports"
	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Badger is a KeyValueStore backed by an embedded BadgerDB.
type Badger struct {
	db     *badger.DB
	logger *zap.Logger
}

// BadgerOptions configures the Badger store.
type BadgerOptions struct {
	// Dir holds the data files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory. Used by tests.
	InMemory bool

	Logger *zap.Logger
}

// NewBadger opens a Badger store
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("kv: BadgerOptions.Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{logger.Sugar()})
	if opts.InMemory {
		dbOpts = dbOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Dir, err)
	}

	logger.Info("Badger store opened",
		zap.String("dir", opts.Dir),
		zap.Bool("inMemory", opts.InMemory),
	)
	return &Badger{db: db, logger: logger}, nil
}

// Get returns the value stored under key
func (b *Badger) Get(_ context.Context, key ports.Key) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ports.ErrNotFound
	}
	return val, err
}

// Set stores value under key
func (b *Badger) Set(_ context.Context, key ports.Key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.String()), value)
	})
}

// Delete removes key. Missing keys are not an error.
func (b *Badger) Delete(_ context.Context, key ports.Key) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key.String()))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close flushes and closes the database
func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's internal logging into zap, keeping only
// warnings and errors.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...any)   { l.s.Errorf("badger: "+f, v...) }
func (l badgerLogger) Warningf(f string, v ...any) { l.s.Warnf("badger: "+f, v...) }
func (l badgerLogger) Infof(string, ...any)        {}
func (l badgerLogger) Debugf(string, ...any)       {}
