package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/clockz"

	"tlpswitch/pkg/logging"
)

const subsystem = "DirectoryWatcher"

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Stats counts what the watcher has seen since Start.
type Stats struct {
	RawEvents int64
	Signals   int64
	Errors    int64
}

// DirectoryWatcher watches a directory and emits one signal per burst of
// filesystem events.
//
// Every raw event rearms a single debounce timer. The signal is sent when the
// timer elapses without a further event. After Stop returns no signal is sent.
type DirectoryWatcher struct {
	mu sync.Mutex

	dir      string
	debounce time.Duration
	clock    clockz.Clock

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
	running bool

	stats Stats
}

// Option configures a DirectoryWatcher.
type Option func(*DirectoryWatcher)

// WithClock replaces the clock used for the debounce timer.
func WithClock(clock clockz.Clock) Option {
	return func(w *DirectoryWatcher) {
		w.clock = clock
	}
}

// New creates a watcher for dir. A zero debounce selects DefaultDebounce.
func New(dir string, debounce time.Duration, opts ...Option) *DirectoryWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &DirectoryWatcher{
		dir:      dir,
		debounce: debounce,
		clock:    clockz.RealClock,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The returned channel receives the coalesced
// "directory changed" signals and is closed when watching ends.
func (w *DirectoryWatcher) Start(ctx context.Context) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil, fmt.Errorf("watcher for %s already started", w.dir)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", w.dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	out := make(chan struct{}, 1)
	w.watcher = fsw
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true
	w.stats = Stats{}

	go w.run(ctx, fsw.Events, fsw.Errors, out)

	logging.Info(subsystem, "Watching %s (debounce %v)", w.dir, w.debounce)
	return out, nil
}

// run is the event loop. It owns the debounce timer; no other goroutine
// touches it.
func (w *DirectoryWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, out chan<- struct{}) {
	defer close(w.done)
	defer close(out)

	var (
		timer clockz.Timer
		armed bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		var timerC <-chan time.Time
		if armed {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			logging.Debug(subsystem, "Raw event %s", event)

			switch {
			case timer == nil:
				timer = w.clock.NewTimer(w.debounce)
			case armed:
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(w.debounce)
			default:
				timer.Reset(w.debounce)
			}
			armed = true
			w.count(func(s *Stats) { s.RawEvents++ })

		case <-timerC:
			armed = false
			select {
			case out <- struct{}{}:
			default:
				// An undelivered signal already covers this change.
			}
			w.count(func(s *Stats) { s.Signals++ })
			logging.Debug(subsystem, "Directory %s changed", w.dir)

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.count(func(s *Stats) { s.Errors++ })
			logging.Error(subsystem, err, "Filesystem watcher error")
		}
	}
}

func (w *DirectoryWatcher) count(f func(*Stats)) {
	w.mu.Lock()
	f(&w.stats)
	w.mu.Unlock()
}

// Stats returns a copy of the watcher's counters.
func (w *DirectoryWatcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Dir returns the watched directory.
func (w *DirectoryWatcher) Dir() string {
	return w.dir
}

// Stop ends watching, cancels a pending debounce timer and waits for the
// event loop to exit. It is safe to call more than once.
func (w *DirectoryWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	fsw := w.watcher
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	<-done

	if err := fsw.Close(); err != nil {
		logging.Error(subsystem, err, "Error closing filesystem watcher")
		return err
	}

	logging.Info(subsystem, "Stopped watching %s", w.dir)
	return nil
}
