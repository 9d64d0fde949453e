// Package watcher reports changes to the tray's configuration files.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cryptomator/cryptomator-tray/internal/config"
)

// EventType represents the type of configuration change.
type EventType int

// Event types for configuration changes.
const (
	EventVaultsChanged EventType = iota
	EventSettingsChanged
)

func (t EventType) String() string {
	switch t {
	case EventVaultsChanged:
		return "vaults_changed"
	case EventSettingsChanged:
		return "settings_changed"
	default:
		return "unknown"
	}
}

// DebounceInterval is how long a path must be quiet before its event fires.
const DebounceInterval = 100 * time.Millisecond

// Event represents a configuration change.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the configuration directory.
type Watcher struct {
	dir        string
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.SugaredLogger
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher for dir.
func New(dir string, logger *zap.SugaredLogger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &Watcher{
		dir:        dir,
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		logger:     logger,
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts watching.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	go w.processEvents()
	w.logger.Debugw("Watching configuration directory", "dir", w.dir)
	return nil
}

// Stop stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Atomic saves (write tmp, rename to target) arrive as Create or Rename on
	// the target file.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	typ, ok := classify(event.Name)
	if !ok {
		return
	}

	w.debounceEvent(event.Name, func() {
		w.logger.Debugw("Configuration changed", "path", event.Name, "op", event.Op, "event", typ)
		select {
		case w.eventsChan <- Event{Type: typ, Path: event.Name}:
		case <-w.done:
		}
	})
}

// classify maps a changed file to an event type.
func classify(path string) (EventType, bool) {
	switch filepath.Base(path) {
	case config.VaultsFileName:
		return EventVaultsChanged, true
	case config.SettingsFileName:
		return EventSettingsChanged, true
	default:
		return 0, false
	}
}

func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}
