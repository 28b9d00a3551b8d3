package overlay

import (
	"sync"
	"time"
)

// Rebuilder keeps one canvas in sync with a region map while the displayed
// image is resized. Resize bursts collapse into a single rebuild using the
// last reported dimensions.
type Rebuilder struct {
	builder  *Builder
	canvas   Canvas
	debounce *Debouncer

	mu      sync.Mutex
	regions *Map
	loadGen uint64
	onBuilt func(DisplayContext, int)

	// buildMu serializes builds so a timer-driven rebuild never interleaves
	// with a load on the shared canvas.
	buildMu sync.Mutex
}

// NewRebuilder returns a rebuilder drawing into canvas. A non-positive quiet
// interval selects DefaultQuietInterval.
func NewRebuilder(builder *Builder, canvas Canvas, quiet time.Duration) *Rebuilder {
	if builder == nil {
		builder = NewBuilder()
	}
	return &Rebuilder{
		builder:  builder,
		canvas:   canvas,
		debounce: NewDebouncer(quiet),
	}
}

// OnBuilt registers a callback invoked after every rebuild with the context
// used and the number of shapes drawn.
func (r *Rebuilder) OnBuilt(fn func(DisplayContext, int)) {
	r.mu.Lock()
	r.onBuilt = fn
	r.mu.Unlock()
}

// Load switches to a new region map once the image's natural size is known
// and builds immediately. Any pending resize rebuild is discarded, and a
// resize rebuild already under way for the previous map is not reported.
func (r *Rebuilder) Load(m *Map, img Image) int {
	r.mu.Lock()
	r.regions = m
	r.loadGen++
	gen := r.loadGen
	r.mu.Unlock()
	r.debounce.Cancel()
	return r.build(gen, m, img)
}

// Trigger schedules a rebuild for the given dimensions after the quiet
// interval, replacing any rebuild still waiting. The rebuild draws the map
// loaded at trigger time and is dropped if another map is loaded first.
func (r *Rebuilder) Trigger(ctx DisplayContext) {
	r.mu.Lock()
	m, gen := r.regions, r.loadGen
	r.mu.Unlock()
	r.debounce.Trigger(func() { r.build(gen, m, ctx) })
}

// Flush runs a waiting rebuild now. It reports whether one ran.
func (r *Rebuilder) Flush() bool {
	return r.debounce.Flush()
}

// Stop discards any waiting rebuild and ignores further triggers.
func (r *Rebuilder) Stop() {
	r.debounce.Stop()
}

func (r *Rebuilder) current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadGen == gen
}

func (r *Rebuilder) build(gen uint64, m *Map, img Image) int {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	if !r.current(gen) {
		return 0
	}
	drawn := r.builder.Build(img, m, r.canvas)

	r.mu.Lock()
	onBuilt, stale := r.onBuilt, r.loadGen != gen
	r.mu.Unlock()
	if stale {
		return drawn
	}
	if onBuilt != nil && img != nil {
		onBuilt(img.Dimensions(), drawn)
	}
	return drawn
}
