// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes to agenda sources with debounced callbacks.
//
// Source directories are watched one level deep, matching how agendas are
// loaded. Events within the debounce window are coalesced so the callback
// fires once with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the callback after the last
// filesystem event. Editors often write a temp file and rename it.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are base-name globs for editor and OS noise.
var defaultIgnores = []string{
	".#*",
	"#*#",
	"*.swp",
	"*.swo",
	"*~",
	"*.tmp",
	".DS_Store",
}

// Watcher monitors agenda sources and fires a debounced callback when a
// matching file changes. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	logger   *log.Logger
	ignores  []string
	debounce time.Duration

	// dirs are the watched source directories. missing holds sources that
	// did not exist at startup, keyed by path, with their parent watched.
	dirs    map[string]struct{}
	files   map[string]struct{}
	missing map[string]struct{}
	mu      sync.Mutex
	started atomic.Bool
}

// New validates cfg and registers every source with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		ignores:  ignores,
		debounce: debounce,
		dirs:     make(map[string]struct{}),
		files:    make(map[string]struct{}),
		missing:  make(map[string]struct{}),
	}

	if err := w.addSources(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set. The running guard keeps callbacks from
	// overlapping when one takes longer than the debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: skipping re-run, previous run still in progress")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch: callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			path, relevant := w.classify(evt)
			if !relevant {
				continue
			}

			mu.Lock()
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// Watched returns the directories currently registered with fsnotify.
func (w *Watcher) Watched() []string {
	return slices.Sorted(slices.Values(w.fsw.WatchList()))
}

// addSources registers each source directory and the parent of each watched
// file. A missing source directory is tolerated by watching its parent.
func (w *Watcher) addSources() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, dir := range w.cfg.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watch: resolve source %q: %w", dir, err)
		}
		err = w.fsw.Add(abs)
		switch {
		case err == nil:
			w.dirs[abs] = struct{}{}
		case errors.Is(err, fs.ErrNotExist):
			w.missing[abs] = struct{}{}
			w.addParent(abs)
		default:
			return fmt.Errorf("watch: add source %q: %w", abs, err)
		}
	}

	for _, file := range w.cfg.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watch: resolve file %q: %w", file, err)
		}
		w.files[abs] = struct{}{}
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.logger.Warn("watch: directory of watched file does not exist", "path", abs)
				continue
			}
			return fmt.Errorf("watch: add file %q: %w", abs, err)
		}
	}
	return nil
}

func (w *Watcher) addParent(dir string) {
	parent := filepath.Dir(dir)
	if err := w.fsw.Add(parent); err != nil {
		w.logger.Warn("watch: source and its parent are unavailable", "path", dir, "err", err)
		return
	}
	w.logger.Debug("watch: waiting for source to appear", "path", dir)
}

// classify decides whether an event concerns a source. It returns the path
// reported to the callback.
func (w *Watcher) classify(evt fsnotify.Event) (string, bool) {
	path := filepath.Clean(evt.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return path, true
	}

	if _, ok := w.missing[path]; ok {
		if !evt.Has(fsnotify.Create) {
			return "", false
		}
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			return "", false
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch: add created source", "path", path, "err", err)
			return "", false
		}
		delete(w.missing, path)
		w.dirs[path] = struct{}{}
		return path, true
	}

	if _, ok := w.dirs[path]; ok {
		// The source directory itself was removed or renamed. fsnotify drops
		// the watch, so track it as missing again.
		if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
			delete(w.dirs, path)
			w.missing[path] = struct{}{}
			w.addParent(path)
			return path, true
		}
		return "", false
	}

	if _, ok := w.dirs[filepath.Dir(path)]; !ok {
		return "", false
	}
	name := filepath.Base(path)
	if w.isIgnored(name) || !w.matchesPatterns(name) {
		return "", false
	}
	return path, true
}

// isIgnored reports whether a base name matches any ignore pattern.
func (w *Watcher) isIgnored(name string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// matchesPatterns reports whether a base name matches at least one pattern.
// When no patterns are configured, every name matches.
func (w *Watcher) matchesPatterns(name string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, pat := range w.cfg.Patterns {
		if matched, err := doublestar.Match(strings.ToLower(pat), lower); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
