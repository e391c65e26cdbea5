package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ghosttype/ghosttype/internal/logging"
)

// reloadDebounce coalesces editor write bursts into one reload.
const reloadDebounce = 200 * time.Millisecond

// Subscriber receives the normalized settings after every reload.
type Subscriber func(Settings)

// Store owns the settings file: initial load, live reload on change,
// and subscriber notification.
type Store struct {
	mu      sync.Mutex
	path    string
	current Settings
	subs    []Subscriber
	logger  *logging.Logger

	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// NewStore loads the settings file and returns a store around it. Load
// failures degrade to defaults with a logged warning; configuration
// errors are never fatal.
func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Null
	}
	st := &Store{
		path:   path,
		logger: logger.WithComponent("config"),
		done:   make(chan struct{}),
	}

	s, err := LoadFile(path)
	if err != nil {
		st.logger.Warn("settings load failed, using defaults: %v", err)
	}
	st.current = s
	return st
}

// Current returns the active settings.
func (st *Store) Current() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Subscribe registers a reload callback. The callback is not invoked
// for the initial load.
func (st *Store) Subscribe(fn Subscriber) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}

// Watch starts watching the settings file for changes. Reloads are
// debounced; the watch covers the parent directory so atomic
// rename-into-place saves are seen.
func (st *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(st.path)); err != nil {
		w.Close()
		return err
	}

	st.mu.Lock()
	st.watcher = w
	st.mu.Unlock()

	go st.run(w)
	return nil
}

// Close stops watching.
func (st *Store) Close() {
	st.mu.Lock()
	w := st.watcher
	st.watcher = nil
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.mu.Unlock()

	if w != nil {
		close(st.done)
		w.Close()
	}
}

func (st *Store) run(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(st.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			st.scheduleReload()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			st.logger.Warn("settings watch error: %v", err)
		case <-st.done:
			return
		}
	}
}

func (st *Store) scheduleReload() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(reloadDebounce, st.reload)
}

func (st *Store) reload() {
	s, err := LoadFile(st.path)
	if err != nil {
		st.logger.Warn("settings reload failed, keeping previous: %v", err)
		return
	}

	st.mu.Lock()
	st.current = s
	subs := make([]Subscriber, len(st.subs))
	copy(subs, st.subs)
	st.mu.Unlock()

	st.logger.Info("settings reloaded from %s", st.path)
	for _, fn := range subs {
		fn(s)
	}
}
