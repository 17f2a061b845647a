package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/ddhremover/internal/ports"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...ports.Field) {}
func (noopLogger) Info(string, ...ports.Field)  {}
func (noopLogger) Warn(string, ...ports.Field)  {}
func (noopLogger) Error(string, ...ports.Field) {}

type recorder struct {
	mu    sync.Mutex
	calls []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.calls = append(r.calls, filepath.Base(path))
	r.mu.Unlock()
	r.ch <- filepath.Base(path)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("processed %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func writeReport(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestInbox_ProcessesExistingAndNewReports(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, filepath.Join(dir, "a.json"), "[]")

	rec := newRecorder()
	inbox := New(dir, Config{DebounceDelay: 20 * time.Millisecond}, rec.handle, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inbox.Run(ctx) }()

	waitFor(t, rec.ch, "a.json")

	writeReport(t, filepath.Join(dir, "ignored.txt"), "[]")
	writeReport(t, filepath.Join(dir, "b.json"), "[ ]")
	waitFor(t, rec.ch, "b.json")

	// a rewrite with a different size is a new version
	writeReport(t, filepath.Join(dir, "a.json"), "[  ]")
	waitFor(t, rec.ch, "a.json")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if got := rec.count(); got != 3 {
		t.Errorf("handler calls = %d, want 3", got)
	}
}

func TestInbox_ProcessOncePerVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.json")
	writeReport(t, path, "[]")

	rec := newRecorder()
	inbox := New(dir, DefaultConfig(), rec.handle, noopLogger{})

	inbox.process(context.Background(), path)
	inbox.process(context.Background(), path)
	if got := rec.count(); got != 1 {
		t.Fatalf("handler calls = %d, want 1", got)
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	inbox.process(context.Background(), path)
	if got := rec.count(); got != 2 {
		t.Errorf("handler calls after touch = %d, want 2", got)
	}
}

func TestInbox_StaleTimerKeepsNewerOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.json")
	rec := newRecorder()
	inbox := New(dir, DefaultConfig(), rec.handle, noopLogger{})

	stale := &pending{timer: time.NewTimer(time.Hour)}
	newer := &pending{timer: time.NewTimer(time.Hour)}
	defer stale.timer.Stop()
	defer newer.timer.Stop()
	inbox.timers[path] = newer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inbox.wg.Add(1)
	inbox.fire(ctx, path, stale)

	if inbox.timers[path] != newer {
		t.Fatal("stale timer removed the newer timer for the same path")
	}

	inbox.wg.Add(1)
	inbox.fire(ctx, path, newer)
	if _, ok := inbox.timers[path]; ok {
		t.Error("expired timer was not removed")
	}
	if rec.count() != 0 {
		t.Errorf("handler ran after cancel: %d calls", rec.count())
	}
}

func TestInbox_HandlerErrorDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, filepath.Join(dir, "a.json"), "[]")
	writeReport(t, filepath.Join(dir, "b.json"), "[]")

	var calls []string
	inbox := New(dir, DefaultConfig(), func(_ context.Context, path string) error {
		calls = append(calls, filepath.Base(path))
		return errors.New("boom")
	}, noopLogger{})

	if err := inbox.scan(context.Background()); err != nil {
		t.Fatalf("scan() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != "a.json" || calls[1] != "b.json" {
		t.Errorf("calls = %v, want [a.json b.json]", calls)
	}
}

func TestInbox_MissingDir(t *testing.T) {
	inbox := New(filepath.Join(t.TempDir(), "nope"), DefaultConfig(), newRecorder().handle, noopLogger{})
	if err := inbox.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

func TestInbox_BadPattern(t *testing.T) {
	inbox := New(t.TempDir(), Config{Pattern: "["}, newRecorder().handle, noopLogger{})
	if err := inbox.Run(context.Background()); err == nil {
		t.Error("Run() expected error for malformed pattern")
	}
}
