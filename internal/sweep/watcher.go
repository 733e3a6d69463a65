package sweep

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/andyballingall/workspace-automation/internal/step"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher re-formats matching files in a directory as they are saved.
type Watcher struct {
	tool   *Tool
	logger *slog.Logger
	Ready  chan struct{}

	debounce   time.Duration
	newWatcher func() (*fsnotify.Watcher, error)

	group     singleflight.Group // one format run per file at a time
	mu        sync.Mutex
	timers    map[string]*time.Timer
	formatted map[string][sha256.Size]byte // content hash left by our own last format run
}

// NewWatcher creates a Watcher that formats files with the given Tool.
func NewWatcher(t *Tool, logger *slog.Logger) *Watcher {
	return &Watcher{
		tool:       t,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		debounce:   defaultDebounce,
		newWatcher: fsnotify.NewWatcher,
		timers:     make(map[string]*time.Timer),
		formatted:  make(map[string][sha256.Size]byte),
	}
}

// Watch monitors dir (not its subdirectories) and calls callback with the
// result of each format run. It blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string, callback func(step.Result)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	defer w.stopTimers()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "dir", dir, "extension", w.tool.Extension())
	if w.Ready != nil {
		close(w.Ready)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if file := w.relevantFile(event); file != "" {
				w.schedule(ctx, dir, file, callback)
			}
		}
	}
}

// relevantFile returns the base name of a written or created matching file, or "".
func (w *Watcher) relevantFile(event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, w.tool.Extension()) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return name
}

// schedule debounces bursts of events for the same file into a single format run.
func (w *Watcher) schedule(ctx context.Context, dir, file string, callback func(step.Result)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[file]; ok {
		t.Stop()
	}
	w.timers[file] = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if res, ran := w.formatOnce(ctx, dir, file); ran {
			callback(res)
		}
	})
}

// formatOnce formats file unless its content is exactly what our previous run left behind.
// It reports whether the formatter ran.
func (w *Watcher) formatOnce(ctx context.Context, dir, file string) (step.Result, bool) {
	v, _, _ := w.group.Do(file, func() (interface{}, error) {
		path := filepath.Join(dir, file)
		before, err := hashFile(path)
		if err != nil {
			return nil, nil //nolint:nilnil // file vanished before the debounce fired
		}

		w.mu.Lock()
		last, seen := w.formatted[file]
		w.mu.Unlock()
		if seen && last == before {
			return nil, nil //nolint:nilnil // our own rewrite
		}

		res := w.tool.FormatFile(ctx, dir, file)
		if after, hErr := hashFile(path); hErr == nil {
			w.mu.Lock()
			w.formatted[file] = after
			w.mu.Unlock()
		}
		return res, nil
	})

	res, ok := v.(step.Result)
	return res, ok
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}

func hashFile(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}
