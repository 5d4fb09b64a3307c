package minimap

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/shell"
)

const (
	DefaultWidth        = 32
	DefaultHeight       = 96
	DefaultRowsPerCheck = 1
)

// Surface shows finished bitmaps.
type Surface interface {
	Display(*Bitmap)
}

type Config struct {
	Width        int
	Height       int
	RowsPerCheck int
	Palette      Palette
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.RowsPerCheck <= 0 {
		c.RowsPerCheck = DefaultRowsPerCheck
	}
	if c.Palette.Background == nil {
		c.Palette = DefaultPalette()
	}
	return c
}

// Completion is what the worker hands back for every job it picked up.
type Completion struct {
	Job    *Job
	Bitmap *Bitmap
	Err    error
}

// RasterFunc draws one job. It must watch job.Cancelled and return
// ErrCancelled once it is set.
type RasterFunc func(ctx context.Context, job *Job, snap *document.Snapshot) (*Bitmap, error)

type Option func(*Renderer)

// WithRasterizer replaces the default gg rasterizer.
func WithRasterizer(fn RasterFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.raster = fn
		}
	}
}

// Renderer owns the minimap's background worker. Scheduling, delivery and
// attachment run on the coordination loop; only the raster work happens on
// the worker goroutine.
type Renderer struct {
	doc    document.Document
	bus    *eventbus.Bus
	raster RasterFunc

	mu        sync.Mutex
	width     int
	height    int
	nextID    uint64
	requested uint64
	pending   *Job
	running   *Job

	attached bool
	surface  Surface

	displayed     *Bitmap
	lastDisplayed uint64

	wake    chan struct{}
	results chan Completion
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRenderer starts the worker. Call Stop to release it and Wait to join
// it.
func NewRenderer(sc *shell.Context, doc document.Document, cfg Config, opts ...Option) *Renderer {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	r := &Renderer{
		doc:     doc,
		width:   cfg.Width,
		height:  cfg.Height,
		wake:    make(chan struct{}, 1),
		results: make(chan Completion, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	if sc != nil {
		r.bus = sc.Bus()
	}
	r.raster = func(_ context.Context, job *Job, snap *document.Snapshot) (*Bitmap, error) {
		return Rasterize(job, snap, cfg.RowsPerCheck, cfg.Palette)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

// Completions delivers one value per job the worker picked up. The worker
// closes it when it exits after Stop.
func (r *Renderer) Completions() <-chan Completion { return r.results }

// Attach makes surface visible. A bitmap at the current document version is
// shown at once; otherwise a render is scheduled and returned.
func (r *Renderer) Attach(surface Surface) *Job {
	r.attached = true
	r.surface = surface
	v := r.doc.Version()
	r.mu.Lock()
	fresh := r.displayed != nil && r.displayed.Version >= v &&
		r.displayed.Layout.Width == r.width && r.displayed.Layout.Height == r.height
	r.mu.Unlock()
	if fresh {
		if surface != nil {
			surface.Display(r.displayed)
		}
		return nil
	}
	return r.ScheduleRender(v)
}

// Detach hides the minimap and abandons outstanding work.
func (r *Renderer) Detach() {
	r.attached = false
	r.surface = nil
	r.mu.Lock()
	pending, running := r.pending, r.running
	r.pending = nil
	r.mu.Unlock()
	r.cancelJob(pending)
	r.cancelJob(running)
}

func (r *Renderer) Attached() bool { return r.attached }

// ScheduleRender queues a render for version at the current size. Any job
// that is pending or running for the same or an older version is cancelled.
// A request older than the newest one seen is ignored and nil is returned.
func (r *Renderer) ScheduleRender(version uint64) *Job {
	r.mu.Lock()
	if version < r.requested {
		r.mu.Unlock()
		events.Minimap.Drop(0, version, "superseded request")
		return nil
	}
	r.requested = version
	var stale []*Job
	if r.pending != nil {
		stale = append(stale, r.pending)
	}
	if r.running != nil && r.running.Version <= version {
		stale = append(stale, r.running)
	}
	r.nextID++
	job := NewJob(r.nextID, version, r.width, r.height)
	r.pending = job
	r.mu.Unlock()

	for _, j := range stale {
		r.cancelJob(j)
	}
	events.Minimap.Schedule(job.ID, version, job.Width, job.Height)
	r.bus.Publish(Scheduled{JobID: job.ID, Version: version})
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return job
}

// OnDocumentChanged records a new document version and renders it when the
// minimap is visible.
func (r *Renderer) OnDocumentChanged(version uint64) *Job {
	if !r.attached {
		r.mu.Lock()
		if version > r.requested {
			r.requested = version
		}
		r.mu.Unlock()
		return nil
	}
	return r.ScheduleRender(version)
}

// Resize changes the bitmap size. A visible minimap re-renders at the
// newest requested version.
func (r *Renderer) Resize(width, height int) *Job {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.mu.Lock()
	if width == r.width && height == r.height {
		r.mu.Unlock()
		return nil
	}
	r.width, r.height = width, height
	v := r.requested
	r.mu.Unlock()
	if !r.attached {
		return nil
	}
	if dv := r.doc.Version(); dv > v {
		v = dv
	}
	return r.ScheduleRender(v)
}

func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Deliver applies a completion on the coordination loop. Failed and
// cancelled jobs are dropped, as is any result older than the newest
// requested version or the one already on screen. It reports whether the
// bitmap was displayed.
func (r *Renderer) Deliver(c Completion) bool {
	if c.Job == nil {
		return false
	}
	r.mu.Lock()
	requested := r.requested
	r.mu.Unlock()

	var reason string
	switch {
	case c.Err != nil:
		reason = c.Err.Error()
	case c.Bitmap == nil:
		reason = "empty result"
	case c.Job.Status() != StatusCompleted:
		reason = "job " + c.Job.Status().String()
	case c.Job.Version < requested:
		reason = fmt.Sprintf("stale: requested %d", requested)
	case r.displayed != nil && c.Job.Version < r.lastDisplayed:
		reason = fmt.Sprintf("stale: displayed %d", r.lastDisplayed)
	}
	if reason != "" {
		events.Minimap.Drop(c.Job.ID, c.Job.Version, reason)
		r.bus.Publish(Dropped{JobID: c.Job.ID, Version: c.Job.Version, Reason: reason})
		return false
	}

	r.mu.Lock()
	r.displayed = c.Bitmap
	r.lastDisplayed = c.Job.Version
	r.mu.Unlock()
	if r.attached && r.surface != nil {
		r.surface.Display(c.Bitmap)
	}
	events.Minimap.Display(c.Job.ID, c.Job.Version)
	r.bus.Publish(Displayed{JobID: c.Job.ID, Version: c.Job.Version})
	return true
}

// Displayed returns the bitmap on screen.
func (r *Renderer) Displayed() (*Bitmap, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.displayed, r.displayed != nil
}

func (r *Renderer) LastDisplayedVersion() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastDisplayed
}

// Click maps a pixel of the displayed bitmap back to an address.
func (r *Renderer) Click(x, y int) (document.Address, bool) {
	b, ok := r.Displayed()
	if !ok {
		return 0, false
	}
	return b.Layout.PixelToAddress(x, y)
}

func (r *Renderer) Pending() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Renderer) Running() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Stop cancels outstanding jobs and the worker context and returns without
// waiting; a running rasterizer finishes its current chunk in the
// background. It is safe to call more than once.
func (r *Renderer) Stop() {
	r.mu.Lock()
	pending, running := r.pending, r.running
	r.pending = nil
	r.mu.Unlock()
	r.cancelJob(pending)
	r.cancelJob(running)
	r.cancel()
}

// Wait blocks until the worker has exited and Completions is closed.
func (r *Renderer) Wait() {
	r.wg.Wait()
}

func (r *Renderer) cancelJob(j *Job) {
	if j != nil && j.Cancel() {
		events.Minimap.Cancel(j.ID, j.Version)
	}
}

func (r *Renderer) loop() {
	defer r.wg.Done()
	defer close(r.results)
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.wake:
		}
		for {
			r.mu.Lock()
			job := r.pending
			r.pending = nil
			if job != nil && job.start() {
				r.running = job
			} else {
				job = nil
			}
			r.mu.Unlock()
			if job == nil {
				break
			}

			c := r.run(job)

			r.mu.Lock()
			if r.running == job {
				r.running = nil
			}
			r.mu.Unlock()

			select {
			case r.results <- c:
			case <-r.ctx.Done():
				return
			}
		}
	}
}

func (r *Renderer) run(job *Job) Completion {
	snap, err := r.doc.Snapshot(r.ctx)
	if err != nil {
		job.Cancel()
		return Completion{Job: job, Err: fmt.Errorf("%w: %v", ErrCancelled, err)}
	}
	bmp, err := r.raster(r.ctx, job, snap)
	if err != nil {
		job.Cancel()
		return Completion{Job: job, Err: err}
	}
	if !job.complete() {
		return Completion{Job: job, Err: ErrCancelled}
	}
	events.Minimap.Complete(job.ID, job.Version)
	return Completion{Job: job, Bitmap: bmp}
}
