// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wows-briefing/briefing/internal/testutil"

	"github.com/charmbracelet/log"
)

const testDebounce = 50 * time.Millisecond

// startWatcher runs a watcher for cfg and returns the channel its callback
// publishes to. The watcher stops when the test ends.
func startWatcher(t *testing.T, cfg Config) <-chan []string {
	t.Helper()

	changes := make(chan []string, 16)
	if cfg.Debounce == 0 {
		cfg.Debounce = testDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(&bytes.Buffer{})
	}
	cfg.OnChange = func(_ context.Context, changed []string) error {
		changes <- changed
		return nil
	}

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	return changes
}

func waitChange(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case changed := <-changes:
		return changed
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
		return nil
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, Config{
		Dirs:     []string{dir},
		Patterns: []string{"*.yaml"},
		Debounce: 150 * time.Millisecond,
	})

	names := []string{"brawl.yaml", "domination.yaml", "epicenter.yaml"}
	for _, name := range names {
		testutil.MustWriteFile(t, filepath.Join(dir, name), "name: "+name)
		time.Sleep(10 * time.Millisecond)
	}

	changed := waitChange(t, changes)
	for _, name := range names {
		if !slices.Contains(changed, filepath.Join(dir, name)) {
			t.Errorf("%s missing from changed set %v", name, changed)
		}
	}
	if !slices.IsSorted(changed) {
		t.Errorf("changed set %v is not sorted", changed)
	}

	select {
	case extra := <-changes:
		t.Errorf("unexpected second callback with %v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, Config{
		Dirs:     []string{dir},
		Patterns: PatternsFor([]string{".yaml", ".yml"}),
	})

	testutil.MustWriteFile(t, filepath.Join(dir, "notes.txt"), "not an agenda")
	time.Sleep(4 * testDebounce)
	testutil.MustWriteFile(t, filepath.Join(dir, "SPOTTING.YML"), "name: spotting")

	changed := waitChange(t, changes)
	want := []string{filepath.Join(dir, "SPOTTING.YML")}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcherIgnoresEditorFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, Config{
		Dirs:     []string{dir},
		Patterns: []string{"*.yaml"},
		Ignore:   []string{"draft-*"},
	})

	testutil.MustWriteFile(t, filepath.Join(dir, ".#carrier.yaml"), "lock")
	testutil.MustWriteFile(t, filepath.Join(dir, "draft-carrier.yaml"), "name: draft")
	time.Sleep(4 * testDebounce)
	testutil.MustWriteFile(t, filepath.Join(dir, "carrier.yaml"), "name: carrier")

	changed := waitChange(t, changes)
	want := []string{filepath.Join(dir, "carrier.yaml")}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcherDoesNotDescend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, Config{
		Dirs:     []string{dir},
		Patterns: []string{"*.yaml"},
	})

	sub := filepath.Join(dir, "archive")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.MustWriteFile(t, filepath.Join(sub, "old.yaml"), "name: old")
	time.Sleep(4 * testDebounce)
	testutil.MustWriteFile(t, filepath.Join(dir, "current.yaml"), "name: current")

	changed := waitChange(t, changes)
	want := []string{filepath.Join(dir, "current.yaml")}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcherMissingSourceAppears(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	source := filepath.Join(root, "agendas")
	changes := startWatcher(t, Config{
		Dirs:     []string{source},
		Patterns: []string{"*.yaml"},
	})

	if err := os.Mkdir(source, 0o755); err != nil {
		t.Fatal(err)
	}
	changed := waitChange(t, changes)
	if !slices.Contains(changed, source) {
		t.Fatalf("changed = %v, want %s reported", changed, source)
	}

	testutil.MustWriteFile(t, filepath.Join(source, "default.yaml"), "name: default")
	changed = waitChange(t, changes)
	want := []string{filepath.Join(source, "default.yaml")}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcherWatchedFile(t *testing.T) {
	t.Parallel()

	replays := t.TempDir()
	arena := filepath.Join(replays, "tempArenaInfo.json")
	changes := startWatcher(t, Config{Files: []string{arena}})

	testutil.MustWriteFile(t, filepath.Join(replays, "20261019_replay.wowsreplay"), "replay")
	time.Sleep(4 * testDebounce)
	testutil.MustWriteFile(t, arena, `{"vehicles":[]}`)

	changed := waitChange(t, changes)
	want := []string{arena}
	if !slices.Equal(changed, want) {
		t.Errorf("changed = %v, want %v", changed, want)
	}
}

func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu     sync.Mutex
		active int
		peak   int
		calls  int
	)
	firstDone := make(chan struct{})

	w, err := New(Config{
		Dirs:     []string{dir},
		Debounce: testDebounce,
		Logger:   log.New(&bytes.Buffer{}),
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			active++
			peak = max(peak, active)
			calls++
			n := calls
			mu.Unlock()

			if n == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstDone)
			}

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	testutil.MustWriteFile(t, filepath.Join(dir, "first.yaml"), "1")
	time.Sleep(2 * testDebounce)
	testutil.MustWriteFile(t, filepath.Join(dir, "second.yaml"), "2")

	select {
	case <-firstDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	time.Sleep(4 * testDebounce)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak != 1 {
		t.Errorf("callbacks overlapped: peak concurrency %d", peak)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (the busy run must be retried)", calls)
	}
}

func TestWatcherCallbackErrorIsLogged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var logBuf syncBuffer
	done := make(chan struct{}, 1)

	w, err := New(Config{
		Dirs:     []string{dir},
		Debounce: testDebounce,
		Logger:   log.New(&logBuf),
		OnChange: func(_ context.Context, _ []string) error {
			defer func() { done <- struct{}{} }()
			return errors.New("agenda compile failed")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	testutil.MustWriteFile(t, filepath.Join(dir, "broken.yaml"), "name: [")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(testDebounce)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() must keep running after a callback error, got %v", err)
	}
	if !strings.Contains(logBuf.String(), "agenda compile failed") {
		t.Errorf("log output %q does not mention the callback error", logBuf.String())
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dirs: []string{t.TempDir()}, Logger: log.New(&bytes.Buffer{})})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(testDebounce)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dirs: []string{t.TempDir()}, Logger: log.New(&bytes.Buffer{})})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(testDebounce)

	err = w.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "Run called more than once") {
		t.Errorf("second Run() = %v, want double-run error", err)
	}

	cancel()
	if firstErr := <-errCh; firstErr != nil {
		t.Fatalf("first Run() returned error: %v", firstErr)
	}
}

func TestWatcherInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Patterns: []string{"[yaml"}})
	if !errors.Is(err, ErrInvalidWatchConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidWatchConfig", err)
	}
}

func TestWatcherWatched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	present := filepath.Join(root, "present")
	if err := os.Mkdir(present, 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{
		Dirs:   []string{present, filepath.Join(root, "absent")},
		Logger: log.New(&bytes.Buffer{}),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.fsw.Close()

	want := []string{root, present}
	if got := w.Watched(); !slices.Equal(got, want) {
		t.Errorf("Watched() = %v, want %v", got, want)
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: DefaultIgnores()}
	tests := []struct {
		name    string
		ignored bool
	}{
		{".#default.yaml", true},
		{"#default.yaml#", true},
		{"default.yaml.swp", true},
		{"default.yaml.swo", true},
		{"default.yaml~", true},
		{"default.yaml.tmp", true},
		{".DS_Store", true},
		{"default.yaml", false},
		{"carrier.cue", false},
		{".hidden.toml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := w.isIgnored(tt.name); got != tt.ignored {
				t.Errorf("isIgnored(%q) = %v, want %v", tt.name, got, tt.ignored)
			}
		})
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
