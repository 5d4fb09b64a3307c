package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/logging"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func next(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case evt, ok := <-w.Events():
		if !ok {
			t.Fatalf("events closed")
		}
		return evt
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for backend event")
	}
	return Event{}
}

func stop(w *Watcher) {
	w.Stop()
	for range w.Events() {
	}
	w.Wait()
}

func TestWatcherPublishesVersionChanges(t *testing.T) {
	doc := document.Sample()
	w := NewWatcher(doc, 10*time.Millisecond, WithThrottle(0))
	defer stop(w)

	evt := next(t, w)
	if evt.Err != nil || evt.Kind != KindSnapshot || evt.Version != 1 {
		t.Fatalf("first event = %+v", evt)
	}
	if snap, ok := evt.Data.(*document.Snapshot); !ok || snap.Version() != 1 {
		t.Fatalf("first event data = %T", evt.Data)
	}

	v := doc.AddSymbol(document.Symbol{Name: "fresh", Address: 0x401120, Kind: document.SymbolLabel})
	evt = next(t, w)
	if evt.Version != v {
		t.Fatalf("version = %d, want %d", evt.Version, v)
	}
}

func TestWatcherReportsErrorsAndRetries(t *testing.T) {
	doc := document.Sample()
	doc.SetError(errors.New("locked"))
	w := NewWatcher(doc, 10*time.Millisecond, WithThrottle(0))
	defer stop(w)

	evt := next(t, w)
	if evt.Err == nil || evt.Data != nil {
		t.Fatalf("expected error event, got %+v", evt)
	}
	doc.SetError(nil)
	for {
		evt = next(t, w)
		if evt.Err == nil {
			break
		}
	}
	if evt.Version != doc.Version() {
		t.Fatalf("recovered version = %d", evt.Version)
	}
}

func TestWatcherWarnsAfterRepeatedFailures(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "backend.log")
	logging.Configure(logPath)

	doc := document.Sample()
	doc.SetError(errors.New("locked"))
	w := NewWatcher(doc, 10*time.Millisecond, WithThrottle(0))
	for i := 0; i < warnAfterFailures; i++ {
		if evt := next(t, w); evt.Err == nil {
			t.Fatalf("event %d: expected error, got %+v", i, evt)
		}
	}
	stop(w)
	_ = logging.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "document snapshot keeps failing") || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected a warning after %d failures, log:\n%s", warnAfterFailures, out)
	}
	if n := strings.Count(out, "document snapshot keeps failing"); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
}

func TestWatcherInitialVersionSuppressesFirstEvent(t *testing.T) {
	doc := document.Sample()
	w := NewWatcher(doc, 5*time.Millisecond, WithThrottle(0), WithInitialVersion(doc.Version()))
	defer stop(w)

	select {
	case evt := <-w.Events():
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
	if !doc.RenameSymbol(0x401040, "entry") {
		t.Fatalf("rename failed")
	}
	evt := next(t, w)
	if evt.Version != doc.Version() {
		t.Fatalf("version = %d, want %d", evt.Version, doc.Version())
	}
}

func TestWatcherFileTrigger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "analysis.db")
	if err := document.WriteSQLite(ctx, path, 1, document.SampleContents()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	doc, err := document.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer doc.Close()

	w := NewWatcher(doc, time.Hour, WithFile(path), WithInitialVersion(1), WithThrottle(0))
	defer stop(w)

	if err := document.WriteSQLite(ctx, path, 2, document.SampleContents()); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	evt := next(t, w)
	if evt.Err != nil || evt.Version != 2 {
		t.Fatalf("file event = %+v", evt)
	}
}

func TestThrottleHonoursContext(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("first wait should pass")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("wait after cancel should fail")
	}
}
