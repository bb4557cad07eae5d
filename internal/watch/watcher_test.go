package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
)

type parseEvent struct {
	result *lang.Result
	err    error
}

func startWatcher(t *testing.T, path string) (<-chan parseEvent, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(Config{Path: path, Debounce: 20 * time.Millisecond, Logger: mdwlog.Discard()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	events := make(chan parseEvent, 16)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- w.Run(ctx, func(result *lang.Result, err error) {
			events <- parseEvent{result, err}
		})
	}()
	return events, cancel, done
}

func next(t *testing.T, events <-chan parseEvent) parseEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for parse")
		return parseEvent{}
	}
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New(Config{})
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("New() error = %v, want %s", err, mdwerror.CodeInvalidInput)
	}
}

func TestWatcher_ReparsesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.tr")
	if err := os.WriteFile(path, []byte("1 + 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, cancel, done := startWatcher(t, path)

	first := next(t, events)
	if first.err != nil || !first.result.OK() {
		t.Fatalf("initial parse = %+v, want ok", first)
	}

	if err := os.WriteFile(path, []byte("(1 + 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	second := next(t, events)
	if second.err != nil {
		t.Fatalf("second parse error = %v", second.err)
	}
	if second.result.OK() {
		t.Error("second parse should report diagnostics")
	}
	if second.result.Source != "(1 + 2" {
		t.Errorf("Source = %q, want %q", second.result.Source, "(1 + 2")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.tr")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, cancel, _ := startWatcher(t, path)
	defer cancel()
	next(t, events)

	if err := os.WriteFile(filepath.Join(dir, "other.tr"), []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected parse for sibling file: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.tr")

	events, cancel, _ := startWatcher(t, path)
	defer cancel()

	ev := next(t, events)
	if !mdwerror.HasCode(ev.err, mdwerror.CodeNotFound) {
		t.Errorf("err = %v, want %s", ev.err, mdwerror.CodeNotFound)
	}
}
