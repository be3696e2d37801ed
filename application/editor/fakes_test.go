package editor

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/coltranesx/Project-Area/application/ports"
	"github.com/coltranesx/Project-Area/application/services"
	"github.com/coltranesx/Project-Area/domain/config"
	"github.com/coltranesx/Project-Area/domain/core/aggregates"
	"github.com/coltranesx/Project-Area/domain/events"
	"go.uber.org/zap"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (s *memStore) Get(_ context.Context, key ports.Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *memStore) Set(_ context.Context, key ports.Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key.String()] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Delete(_ context.Context, key ports.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key.String())
	return nil
}

func (s *memStore) Close() error { return nil }

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFiles() *memFiles { return &memFiles{files: make(map[string][]byte)} }

type memWriter struct {
	bytes.Buffer
	done func([]byte)
}

func (w *memWriter) Close() error { w.done(w.Bytes()); return nil }

func (f *memFiles) Read(_ context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *memFiles) Write(_ context.Context, path string) (io.WriteCloser, error) {
	return &memWriter{done: func(b []byte) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.files[path] = append([]byte(nil), b...)
	}}, nil
}

func (f *memFiles) Delete(_ context.Context, path string) error { return nil }

func (f *memFiles) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

type noticeLog struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (n *noticeLog) Notify(_ context.Context, notice ports.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) codes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, notice := range n.notices {
		out = append(out, notice.Code)
	}
	return out
}

type eventLog struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (e *eventLog) Publish(_ context.Context, evts ...events.DomainEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evts...)
	return nil
}

func (e *eventLog) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, evt := range e.events {
		out = append(out, evt.GetEventType())
	}
	return out
}

type nopMetrics struct{}

func (nopMetrics) RecordCommand(string, string, time.Duration) {}
func (nopMetrics) RecordFallback(string)                       {}
func (nopMetrics) RecordImport(string)                         {}

type staticSettings config.EditorSettings

func (s staticSettings) Current() config.EditorSettings { return config.EditorSettings(s) }

// gatedGateway wraps a FileGateway and holds every Import until release is closed.
type gatedGateway struct {
	FileGateway
	started chan struct{}
	release chan struct{}
}

func (g *gatedGateway) Import(ctx context.Context, handle ports.FileHandle) (aggregates.Document, error) {
	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return g.FileGateway.Import(ctx, handle)
}

type harness struct {
	store   *memStore
	files   *memFiles
	notices *noticeLog
	events  *eventLog
	local   *services.LocalChannel
	channel *services.FileChannel
	deps    Dependencies
}

func newHarness() *harness {
	h := &harness{
		store:   newMemStore(),
		files:   newMemFiles(),
		notices: &noticeLog{},
		events:  &eventLog{},
	}
	logger := zap.NewNop()
	h.local = services.NewLocalChannel(h.store, "ws", nopMetrics{}, logger)
	h.channel = services.NewFileChannel(h.files, h.notices, "ws", logger)
	h.deps = Dependencies{
		Local:     h.local,
		Files:     h.channel,
		Settings:  staticSettings(config.DefaultEditorSettings()),
		Notifier:  h.notices,
		Publisher: h.events,
		Metrics:   nopMetrics{},
		Logger:    logger,
		Rand:      func() float64 { return 0.5 },
		Clock:     func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	return h
}

func (h *harness) controller() *Controller {
	return NewController(context.Background(), "ws", h.deps)
}

func jsonHandle(data []byte) services.BytesHandle {
	return services.BytesHandle{FileName: "proje.json", Type: services.JSONMediaType, Data: data}
}
