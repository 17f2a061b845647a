// Package watch processes duplicate reports dropped into a directory.
// Reports already present when watching starts are processed first; reports
// created or rewritten later are processed once their writes settle.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/ddhremover/internal/ports"
)

// Handler processes one report file. Errors are logged and do not stop
// the inbox.
type Handler func(ctx context.Context, path string) error

// Config holds configuration options for an Inbox.
type Config struct {
	// Pattern selects report files by base name.
	// Default: *.json
	Pattern string

	// DebounceDelay is the delay to wait after the last write to a report
	// before processing it.
	// Default: 250 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Pattern:       "*.json",
		DebounceDelay: 250 * time.Millisecond,
	}
}

// stamp identifies one version of a report file.
type stamp struct {
	size    int64
	modTime time.Time
}

// pending is one debounce timer. Its identity tells a firing timer whether
// it is still the latest one registered for its path.
type pending struct {
	timer *time.Timer
}

// Inbox watches a directory for reports.
type Inbox struct {
	dir     string
	cfg     Config
	handler Handler
	logger  ports.Logger

	mu     sync.Mutex
	seen   map[string]stamp
	timers map[string]*pending
	wg     sync.WaitGroup

	// serializes handler calls
	procMu sync.Mutex
}

// New creates an Inbox for dir.
func New(dir string, cfg Config, handler Handler, logger ports.Logger) *Inbox {
	if cfg.Pattern == "" {
		cfg.Pattern = "*.json"
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 250 * time.Millisecond
	}
	return &Inbox{
		dir:     dir,
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		seen:    make(map[string]stamp),
		timers:  make(map[string]*pending),
	}
}

// Run watches until ctx is canceled. A report being processed when ctx is
// canceled is allowed to finish.
func (w *Inbox) Run(ctx context.Context) error {
	if _, err := filepath.Match(w.cfg.Pattern, ""); err != nil {
		return fmt.Errorf("watch pattern %q: %w", w.cfg.Pattern, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for reports",
		ports.String("dir", w.dir),
		ports.String("pattern", w.cfg.Pattern))

	// Events arriving during the scan are debounced and deduplicated by stamp.
	if err := w.scan(ctx); err != nil {
		return err
	}

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.debounce(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Inbox) scan(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(w.dir, w.cfg.Pattern))
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.dir, err)
	}
	sort.Strings(matches)
	for _, path := range matches {
		if ctx.Err() != nil {
			return nil
		}
		w.process(ctx, path)
	}
	return nil
}

func (w *Inbox) matches(path string) bool {
	ok, _ := filepath.Match(w.cfg.Pattern, filepath.Base(path))
	return ok
}

func (w *Inbox) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.timers[path]; ok && prev.timer.Stop() {
		w.wg.Done()
	}
	p := &pending{}
	w.wg.Add(1)
	p.timer = time.AfterFunc(w.cfg.DebounceDelay, func() { w.fire(ctx, path, p) })
	w.timers[path] = p
}

// fire runs when the debounce timer p expires. A newer timer registered for
// the same path while this one waited for the lock is left in place.
func (w *Inbox) fire(ctx context.Context, path string, p *pending) {
	defer w.wg.Done()

	w.mu.Lock()
	if w.timers[path] == p {
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	w.process(ctx, path)
}

// stop cancels pending timers and waits for running ones.
func (w *Inbox) stop() {
	w.mu.Lock()
	for path, p := range w.timers {
		if p.timer.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// process hands path to the handler unless this version was already seen.
func (w *Inbox) process(ctx context.Context, path string) {
	w.procMu.Lock()
	defer w.procMu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug("report vanished", ports.String("path", path), ports.Err(err))
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	st := stamp{size: info.Size(), modTime: info.ModTime()}
	w.mu.Lock()
	prev, ok := w.seen[path]
	if ok && prev.size == st.size && prev.modTime.Equal(st.modTime) {
		w.mu.Unlock()
		return
	}
	w.seen[path] = st
	w.mu.Unlock()

	w.logger.Info("processing report", ports.String("path", path))
	if err := w.handler(ctx, path); err != nil {
		w.logger.Error("report failed", ports.String("path", path), ports.Err(err))
	}
}
