package export

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 500 * time.Millisecond

// RunFunc re-runs an export after a watched file changed
type RunFunc func() error

// Watcher re-runs an export when any watched file changes. It watches the
// parent directories, so files replaced by rename are still seen.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	run      RunFunc
	debounce time.Duration
	log      *zap.SugaredLogger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	done    chan struct{}

	// runMu keeps runs from overlapping; pending counts scheduled and running ones
	runMu   sync.Mutex
	pending sync.WaitGroup
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a run
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher calling run when any of paths changes
func NewWatcher(run RunFunc, paths []string, opts ...WatcherOption) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool),
		watcher:  fw,
		run:      run,
		debounce: DefaultDebounce,
		log:      logger.ComponentLogger("watch"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Start watches in the background until ctx is done or Stop is called
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Done is closed when the watch loop has exited
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Stop stops watching, cancels any pending run and waits for a run in
// progress to finish
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	w.cancelTimer()
	w.mu.Unlock()

	err := w.watcher.Close()
	w.pending.Wait()
	return err
}

// cancelTimer stops a scheduled run that has not started. Callers hold mu.
func (w *Watcher) cancelTimer() {
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.timer = nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Infow("change detected",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether event writes one of the watched files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isBackupFile(event.Name) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule debounces rapid changes into one run
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.cancelTimer()
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.runMu.Lock()
		defer w.runMu.Unlock()

		start := time.Now()
		if err := w.run(); err != nil {
			w.log.Errorw("export failed", logger.FieldError, err)
			return
		}
		w.log.Infow("export refreshed", logger.FieldDurationMS, time.Since(start).Milliseconds())
	})
}

// isBackupFile matches the .back1 to .back3 rotations written by config init
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}
