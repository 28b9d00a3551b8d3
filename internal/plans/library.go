package plans

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"railcheck/internal/catalog"
	"railcheck/internal/logging"
	"railcheck/internal/overlay"
)

// MapsFile is the markup document holding every region map.
const MapsFile = "maps.html"

var ErrUnknownPlan = errors.New("unknown plan")

// Plan is a resolved floor plan.
type Plan struct {
	catalog.PlanRef
	Path          string       `json:"path"`
	NaturalWidth  int          `json:"natural_width"`
	NaturalHeight int          `json:"natural_height"`
	Map           *overlay.Map `json:"-"`
	Regions       int          `json:"regions"`
}

// Library resolves plans from a directory. Natural image sizes are read
// lazily and cached.
type Library struct {
	dir     string
	logger  *slog.Logger
	builder *overlay.Builder
	refs    map[string]catalog.PlanRef
	maps    map[string]*overlay.Map

	mu    sync.Mutex
	sizes map[string]image.Point
}

// Open parses dir/maps.html and indexes the known plans. A missing maps file
// leaves every plan without regions.
func Open(dir string, builder *overlay.Builder, logger *slog.Logger) (*Library, error) {
	logger = logging.NewComponentLogger(logger, "plans")
	if builder == nil {
		builder = overlay.NewBuilder(overlay.WithLogger(logger))
	}
	lib := &Library{
		dir:     dir,
		logger:  logger,
		builder: builder,
		refs:    make(map[string]catalog.PlanRef),
		maps:    make(map[string]*overlay.Map),
		sizes:   make(map[string]image.Point),
	}
	for _, ref := range catalog.Plans() {
		lib.refs[ref.ID] = ref
	}

	path := filepath.Join(dir, MapsFile)
	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logging.WarnWithContext(logger, "region map file missing", "plans_maps_missing",
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "add maps.html to the plans directory"),
			logging.String(logging.FieldImpact, "plan overlays will be empty"),
		)
		return lib, nil
	case err != nil:
		return nil, fmt.Errorf("open region maps: %w", err)
	}
	defer file.Close()

	maps, err := overlay.ParseMaps(file)
	if err != nil {
		return nil, err
	}
	lib.maps = maps
	logger.Info("region maps loaded",
		logging.String("path", path),
		logging.Int("maps", len(maps)),
	)
	return lib, nil
}

// Dir returns the plans directory.
func (l *Library) Dir() string { return l.dir }

// List returns every known plan in train order.
func (l *Library) List() []Plan {
	refs := catalog.Plans()
	out := make([]Plan, 0, len(refs))
	for _, ref := range refs {
		out = append(out, l.resolve(ref))
	}
	return out
}

// Get resolves a plan id such as "R1_haut", "R4" or "train".
func (l *Library) Get(id string) (Plan, error) {
	ref, ok := l.refs[id]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	return l.resolve(ref), nil
}

func (l *Library) resolve(ref catalog.PlanRef) Plan {
	p := Plan{
		PlanRef: ref,
		Path:    filepath.Join(l.dir, filepath.FromSlash(ref.Image)),
		Map:     l.maps[ref.MapID],
	}
	if p.Map != nil {
		p.Regions = len(p.Map.Regions)
	}
	size := l.naturalSize(p.Path)
	p.NaturalWidth, p.NaturalHeight = size.X, size.Y
	return p
}

// naturalSize decodes only the image header. Unreadable images report zero,
// which the overlay builder treats as unknown.
func (l *Library) naturalSize(path string) image.Point {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size, ok := l.sizes[path]; ok {
		return size
	}
	size, err := decodeSize(path)
	if err != nil {
		l.logger.Debug("plan image size unavailable", logging.String("path", path), logging.Error(err))
	}
	l.sizes[path] = size
	return size
}

func decodeSize(path string) (image.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return image.Point{}, fmt.Errorf("decode image header: %w", err)
	}
	return image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

// Display returns the display context of a plan rendered at width by height.
func (p Plan) Display(width, height float64) overlay.DisplayContext {
	return overlay.DisplayContext{
		NaturalWidth:  float64(p.NaturalWidth),
		NaturalHeight: float64(p.NaturalHeight),
		DisplayWidth:  width,
		DisplayHeight: height,
	}
}

// RegionMap returns the plan's region map, or an empty one when maps.html
// has no entry for it, so overlays still get a frame sized to the display.
func (p Plan) RegionMap() *overlay.Map {
	if p.Map != nil {
		return p.Map
	}
	return &overlay.Map{ID: p.MapID}
}

// Overlay draws the plan's regions scaled to a width by height display.
func (l *Library) Overlay(id string, width, height float64) (*overlay.SVGCanvas, error) {
	p, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	canvas := overlay.NewSVGCanvas()
	l.builder.Build(p.Display(width, height), p.RegionMap(), canvas)
	return canvas, nil
}

// Hit resolves a display-space click on a plan to the zone under it.
func (l *Library) Hit(id string, x, y, width, height float64) (overlay.Element, bool, error) {
	canvas, err := l.Overlay(id, width, height)
	if err != nil {
		return overlay.Element{}, false, err
	}
	el, ok := canvas.Hit(x, y)
	return el, ok, nil
}

// Builder returns the overlay builder shared by this library.
func (l *Library) Builder() *overlay.Builder { return l.builder }
