package preset

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirWatcher polls the preset directory for YAML changes and triggers a
// callback, typically Loader.Invalidate. Polling keeps the dependency
// surface flat; preset edits are rare and a few seconds of latency is
// acceptable.
type DirWatcher struct {
	Dir      string
	Interval time.Duration
	onChange func(string) // called with the path that changed

	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewDirWatcher creates a watcher over dir with the given poll interval.
func NewDirWatcher(dir string, interval time.Duration, onChange func(string)) *DirWatcher {
	return &DirWatcher{
		Dir:       dir,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *DirWatcher) Start() {
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		// prime the mtime cache so startup does not fire callbacks
		w.scan(true)
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *DirWatcher) Stop() {
	close(w.stopCh)
}

// scan walks the directory and fires onChange for files whose mtime
// moved forward since the previous pass. New files count as changes.
func (w *DirWatcher) scan(prime bool) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(w.Dir, e.Name())
		fi, err := e.Info()
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, seen := w.lastMTime[path]
		w.lastMTime[path] = mt
		if prime {
			continue
		}
		if !seen || mt.After(last) {
			if w.onChange != nil {
				w.onChange(path)
			}
		}
	}
}
