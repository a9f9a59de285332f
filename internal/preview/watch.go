package preview

import (
	"context"
	"os"
	"sync"
	"time"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are the files to watch.
	Paths []string

	// Interval is the polling period (default: 250ms).
	Interval time.Duration
}

// Watcher polls files for modification and reports each changed path.
// A file that disappears and later reappears is reported when it comes back.
type Watcher struct {
	config   WatcherConfig
	onChange func(path string)

	mu         sync.Mutex
	timestamps map[string]time.Time
}

// NewWatcher creates a watcher. Nothing is polled until Run.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run polls until ctx is done and returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// scan records modification times and, when report is set, calls the
// callback for every path that is new or newer than last seen.
func (w *Watcher) scan(report bool) {
	var changed []string

	w.mu.Lock()
	callback := w.onChange
	for _, p := range w.config.Paths {
		info, err := os.Stat(p)
		if err != nil {
			delete(w.timestamps, p)
			continue
		}
		last, seen := w.timestamps[p]
		if !seen || info.ModTime().After(last) {
			w.timestamps[p] = info.ModTime()
			changed = append(changed, p)
		}
	}
	w.mu.Unlock()

	if !report || callback == nil {
		return
	}
	for _, p := range changed {
		callback(p)
	}
}
