package orrery

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches asset and catalog paths and collects the files that
// changed. The host polls Pending once per tick and remounts when it
// returns anything, so a burst of writes becomes a single reload.
type Reloader struct {
	watcher *fsnotify.Watcher
	log     *slog.Logger

	mu      sync.Mutex
	changed map[string]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

// NewReloader starts watching paths, which may be files or directories.
func NewReloader(log *slog.Logger, paths ...string) (*Reloader, error) {
	if log == nil {
		log = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reloader: %w", err)
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, fmt.Errorf("reloader: watch %s: %w", p, err)
		}
	}
	r := &Reloader{
		watcher: w,
		log:     log.With("component", "reload"),
		changed: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.watch()
	return r, nil
}

func (r *Reloader) watch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.mu.Lock()
			r.changed[event.Name] = struct{}{}
			r.mu.Unlock()
			r.log.Debug("changed", "path", event.Name, "op", event.Op.String())
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn("watch error", "err", err)
		}
	}
}

// Pending returns the paths changed since the previous call, sorted, and
// resets the set. It never blocks.
func (r *Reloader) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.changed))
	for p := range r.changed {
		out = append(out, p)
	}
	clear(r.changed)
	slices.Sort(out)
	return out
}

// Close stops watching. Safe to call more than once.
func (r *Reloader) Close() error {
	select {
	case <-r.done:
		return nil
	default:
	}
	close(r.done)
	err := r.watcher.Close()
	r.wg.Wait()
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return err
	}
	return nil
}
