package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	domainconfig "github.com/coltranesx/Project-Area/domain/config"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 200 * time.Millisecond

// SettingsWatcher reloads the editor settings file when it changes and
// hands valid settings to the registered callback. Invalid files are
// logged and ignored, keeping the previous settings.
type SettingsWatcher struct {
	path     string
	onChange func(domainconfig.EditorSettings)
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	delay    time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewSettingsWatcher starts watching path. The directory is watched rather
// than the file so that editors replacing the file by rename are seen.
func NewSettingsWatcher(path string, onChange func(domainconfig.EditorSettings), logger *zap.Logger) (*SettingsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &SettingsWatcher{
		path:     abs,
		onChange: onChange,
		logger:   logger,
		watcher:  fsWatcher,
		delay:    debounceDelay,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Watching editor settings", zap.String("path", abs))
	return w, nil
}

func (w *SettingsWatcher) watchLoop() {
	defer close(w.done)
	defer w.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.delay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

func (w *SettingsWatcher) reload() {
	settings, err := LoadSettings(w.path)
	if err != nil {
		w.logger.Warn("Ignoring invalid editor settings", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("Editor settings reloaded", zap.String("path", w.path))
	w.onChange(settings)
}

// Close stops watching
func (w *SettingsWatcher) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
	return nil
}
