package backend

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/logging"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindSnapshot Kind = iota
)

// Event conveys a new document snapshot or an error from a backend poll.
type Event struct {
	Kind    Kind
	Version uint64
	Data    interface{}
	Err     error
}

const (
	defaultInterval = 500 * time.Millisecond
	defaultThrottle = 100 * time.Millisecond

	// consecutive snapshot failures before the watcher logs a warning
	warnAfterFailures = 3
)

type Option func(*Watcher)

// WithFile also watches path on disk so that a rewrite by the engine
// triggers an immediate poll.
func WithFile(path string) Option {
	return func(w *Watcher) { w.file = path }
}

// WithInitialVersion suppresses the first event while the document is
// still at v.
func WithInitialVersion(v uint64) Option {
	return func(w *Watcher) { w.last = v }
}

// WithThrottle sets the minimum gap between two snapshot loads.
func WithThrottle(d time.Duration) Option {
	return func(w *Watcher) { w.throttle = newThrottle(d) }
}

// Watcher polls the document version at a fixed interval and publishes a
// snapshot whenever it changes.
type Watcher struct {
	doc      document.Document
	interval time.Duration
	file     string
	last     uint64
	failures int
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	trigger chan struct{}
	events  chan Event
	wg      sync.WaitGroup
}

// NewWatcher creates a backend watcher that polls doc every interval.
func NewWatcher(doc document.Document, interval time.Duration, opts ...Option) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		doc:      doc,
		interval: interval,
		throttle: newThrottle(defaultThrottle),
		ctx:      ctx,
		cancel:   cancel,
		trigger:  make(chan struct{}, 1),
		events:   make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.file != "" {
		w.startFileWatcher()
	}
	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Poke requests an immediate poll.
func (w *Watcher) Poke() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startFileWatcher() {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		events.Backend.Error(err)
		return
	}
	dir := filepath.Dir(w.file)
	if err := fw.Add(dir); err != nil {
		events.Backend.Error(err)
		fw.Close()
		return
	}
	base := filepath.Base(w.file)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fw.Close()
		for {
			select {
			case <-w.ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				// sqlite rewrites land in the -wal and -journal siblings too
				if !strings.HasPrefix(filepath.Base(ev.Name), base) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				events.Backend.FileEvent(ev.Name, ev.Op.String())
				w.Poke()
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				events.Backend.Error(err)
			}
		}
	}()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	if !w.check() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		case <-w.trigger:
		}
		if !w.check() {
			return
		}
	}
}

// check loads and publishes a snapshot if the version moved. It returns
// false once the watcher is stopping.
func (w *Watcher) check() bool {
	if !w.throttle.wait(w.ctx) {
		return false
	}
	v := w.doc.Version()
	changed := v != w.last
	events.Backend.Poll(v, changed)
	if !changed {
		return true
	}
	snap, err := w.doc.Snapshot(w.ctx)
	evt := Event{Kind: KindSnapshot, Version: v, Err: err}
	if err != nil {
		events.Backend.Error(err)
		w.failures++
		if w.failures == warnAfterFailures {
			logging.Warn("document snapshot keeps failing",
				zap.Int("failures", w.failures),
				zap.Uint64("version", v),
				zap.Error(err))
		}
	} else {
		w.failures = 0
		w.last = snap.Version()
		evt.Version = snap.Version()
		evt.Data = snap
	}
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
