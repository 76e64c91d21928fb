package coeff

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DirWatcher polls a directory's *.yaml files and reports added, removed or
// modified files once per tick.
type DirWatcher struct {
	Dir      string
	Interval time.Duration
	onChange func(changed []string)
	seen     map[string]time.Time
}

// NewDirWatcher creates a watcher for dir. onChange receives the sorted list
// of paths that changed since the previous scan.
func NewDirWatcher(dir string, interval time.Duration, onChange func([]string)) *DirWatcher {
	return &DirWatcher{
		Dir:      dir,
		Interval: interval,
		onChange: onChange,
		seen:     make(map[string]time.Time),
	}
}

// Run polls until ctx is done. The first scan primes the state without reporting.
func (w *DirWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.scan()
	for {
		select {
		case <-ticker.C:
			if changed := w.scan(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		case <-ctx.Done():
			return
		}
	}
}

// scan compares the current mtimes with the previous scan.
func (w *DirWatcher) scan() []string {
	matches, err := filepath.Glob(filepath.Join(w.Dir, "*.yaml"))
	if err != nil {
		return nil
	}
	current := make(map[string]time.Time, len(matches))
	for _, p := range matches {
		fi, err := os.Stat(p)
		if err != nil {
			// removed between glob and stat; the next scan reports it
			continue
		}
		current[p] = fi.ModTime()
	}

	var changed []string
	for p, mt := range current {
		if last, ok := w.seen[p]; !ok || !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	for p := range w.seen {
		if _, ok := current[p]; !ok {
			changed = append(changed, p)
		}
	}
	w.seen = current
	sort.Strings(changed)
	return changed
}
