package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/logging"
)

// Snapshot is one loaded version of the scored dataset. It must not be
// modified after it is published.
type Snapshot struct {
	Path     string
	Items    []dataset.ScoredItem
	LoadedAt time.Time
}

// Store is a thread-safe holder of the current Snapshot.
type Store struct {
	path string
	now  func() time.Time // injectable for deterministic tests

	mu   sync.RWMutex
	snap *Snapshot
	subs []func(*Snapshot)
}

// New creates a Store for the scored file at path. Nothing is loaded until
// Load is called.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the scored file the store reads.
func (s *Store) Path() string { return s.path }

// Load reads the scored file and publishes it. On error the previous
// snapshot stays current.
func (s *Store) Load() error {
	tbl, err := dataset.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("store: load: %w", err)
	}
	items, err := dataset.DecodeScored(tbl)
	if err != nil {
		return fmt.Errorf("store: decode: %w", err)
	}

	snap := &Snapshot{Path: s.path, Items: items, LoadedAt: s.now()}

	s.mu.Lock()
	s.snap = snap
	subs := append([]func(*Snapshot){}, s.subs...)
	s.mu.Unlock()

	slog.Info("store: loaded", "path", s.path, "items", len(items))
	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// Snapshot returns the current snapshot, or nil if nothing has loaded yet.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Items returns the items of the current snapshot. The slice is shared and
// must not be modified.
func (s *Store) Items() []dataset.ScoredItem {
	if snap := s.Snapshot(); snap != nil {
		return snap.Items
	}
	return nil
}

// Count returns the number of items currently loaded.
func (s *Store) Count() int { return len(s.Items()) }

// OnChange registers fn to be called after every successful load.
func (s *Store) OnChange(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Watch reloads the scored file whenever it is written or replaced. The
// parent directory is watched so the pipeline's rename-into-place is seen.
// Watch blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(watcher, slog.Default(), "store watcher")

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("store: watch %q: %w", filepath.Dir(target), err)
	}
	slog.Info("store: watching for changes", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Load(); err != nil {
				slog.Warn("store: reload failed, keeping previous snapshot", "path", s.path, "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("store: watcher error", "err", err)
		}
	}
}
