package overlay

import (
	"sync"
	"testing"
	"time"
)

func TestRebuilderResizeBurstUsesLastContext(t *testing.T) {
	canvas := NewSVGCanvas()
	r := NewRebuilder(NewBuilder(), canvas, 0)
	sched := &fakeScheduler{}
	r.debounce.afterFunc = sched.afterFunc

	var built []DisplayContext
	r.OnBuilt(func(ctx DisplayContext, _ int) { built = append(built, ctx) })

	m := &Map{Regions: []Region{NewRegion("rect", "0,0,1000,500")}}
	r.Load(m, DisplayContext{NaturalWidth: 1000, NaturalHeight: 500, DisplayWidth: 1000, DisplayHeight: 500})

	for _, width := range []float64{900, 800, 700, 600} {
		r.Trigger(DisplayContext{NaturalWidth: 1000, NaturalHeight: 500, DisplayWidth: width, DisplayHeight: width / 2})
	}
	sched.fireAll()

	if len(built) != 2 {
		t.Fatalf("builds = %d, want load plus one resize", len(built))
	}
	if built[1].DisplayWidth != 600 {
		t.Fatalf("resize build used width %v, want 600", built[1].DisplayWidth)
	}
	if w, _ := canvas.Frame(); w != 600 {
		t.Fatalf("canvas frame width = %v, want 600", w)
	}
	rect := canvas.Elements()[0].Shape.(Rect)
	if !approxEqual(rect.Width, 600) {
		t.Fatalf("rect width = %v, want 600", rect.Width)
	}
}

func TestRebuilderLoadDiscardsPendingResize(t *testing.T) {
	canvas := NewSVGCanvas()
	r := NewRebuilder(nil, canvas, 0)
	sched := &fakeScheduler{}
	r.debounce.afterFunc = sched.afterFunc

	builds := 0
	r.OnBuilt(func(DisplayContext, int) { builds++ })

	r.Trigger(DisplayContext{DisplayWidth: 10, DisplayHeight: 10})
	r.Load(&Map{ID: "b"}, DisplayContext{NaturalWidth: 20, NaturalHeight: 20, DisplayWidth: 20, DisplayHeight: 20})
	sched.fireAll()

	if builds != 1 {
		t.Fatalf("builds = %d, want 1", builds)
	}
	if r.Flush() {
		t.Fatal("nothing should remain after load")
	}
}

func TestRebuilderStop(t *testing.T) {
	r := NewRebuilder(nil, NewSVGCanvas(), 0)
	sched := &fakeScheduler{}
	r.debounce.afterFunc = sched.afterFunc
	builds := 0
	r.OnBuilt(func(DisplayContext, int) { builds++ })

	r.Trigger(DisplayContext{DisplayWidth: 10, DisplayHeight: 10})
	r.Stop()
	sched.fireAll()
	if builds != 0 {
		t.Fatalf("builds = %d after stop, want 0", builds)
	}
}

// gatedCanvas blocks the first Clear until release is closed.
type gatedCanvas struct {
	*SVGCanvas
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *gatedCanvas) Clear() {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.entered)
		<-c.release
	}
	c.SVGCanvas.Clear()
}

func TestRebuilderResizeDuringPlanSwitchKeepsItsMap(t *testing.T) {
	canvas := &gatedCanvas{SVGCanvas: NewSVGCanvas(), entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRebuilder(nil, canvas, time.Millisecond)

	type build struct {
		width float64
		drawn int
	}
	var mu sync.Mutex
	var builds []build
	r.OnBuilt(func(ctx DisplayContext, drawn int) {
		mu.Lock()
		builds = append(builds, build{ctx.DisplayWidth, drawn})
		mu.Unlock()
	})

	first := &Map{ID: "first", Regions: []Region{NewRegion("rect", "0,0,10,10")}}
	second := &Map{ID: "second", Regions: []Region{
		NewRegion("rect", "0,0,10,10"),
		NewRegion("circle", "50,50,5"),
		NewRegion("rect", "20,20,30,30"),
	}}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Load(first, DisplayContext{NaturalWidth: 100, NaturalHeight: 100, DisplayWidth: 100, DisplayHeight: 100})
	}()
	<-canvas.entered

	// The resize timer fires while the first load still holds the canvas.
	r.Trigger(DisplayContext{NaturalWidth: 100, NaturalHeight: 100, DisplayWidth: 50, DisplayHeight: 50})
	time.Sleep(30 * time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Load(second, DisplayContext{NaturalWidth: 400, NaturalHeight: 400, DisplayWidth: 400, DisplayHeight: 400})
	}()
	time.Sleep(30 * time.Millisecond)
	close(canvas.release)
	wg.Wait()
	time.Sleep(30 * time.Millisecond)
	r.buildMu.Lock()
	r.buildMu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	for _, b := range builds {
		if b.width == 50 && b.drawn != 1 {
			t.Fatalf("resize for the first map drew %d shapes", b.drawn)
		}
	}
	last := builds[len(builds)-1]
	if last.width != 400 || last.drawn != 3 {
		t.Fatalf("last build = %+v, want the second load", last)
	}
	if w, _ := canvas.Frame(); w != 400 || len(canvas.Elements()) != 3 {
		t.Fatalf("canvas frame %v with %d elements, want 400 and 3", w, len(canvas.Elements()))
	}
}
