package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/coltranesx/Project-Area/application/ports"
)

type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key ports.Key) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *fakeStore) Set(_ context.Context, key ports.Key, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key.String()] = append([]byte(nil), value...)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key ports.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key.String())
	return nil
}

func (s *fakeStore) Close() error { return nil }

type fakeFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: make(map[string][]byte)}
}

type fileWriter struct {
	bytes.Buffer
	close func([]byte)
}

func (w *fileWriter) Close() error {
	w.close(w.Bytes())
	return nil
}

func (f *fakeFiles) Read(_ context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFiles) Write(_ context.Context, path string) (io.WriteCloser, error) {
	return &fileWriter{close: func(b []byte) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.files[path] = append([]byte(nil), b...)
	}}, nil
}

func (f *fakeFiles) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeFiles) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice ports.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) all() []ports.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notice(nil), n.notices...)
}

type recordingMetrics struct {
	mu        sync.Mutex
	fallbacks []string
}

func (m *recordingMetrics) RecordCommand(string, string, time.Duration) {}
func (m *recordingMetrics) RecordImport(string)                         {}
func (m *recordingMetrics) RecordFallback(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, reason)
}

type failingHandle struct{}

func (failingHandle) Name() string      { return "broken.json" }
func (failingHandle) MediaType() string { return JSONMediaType }
func (failingHandle) Open(context.Context) (io.ReadCloser, error) {
	return nil, errors.New("disk unplugged")
}
