package overlay

import (
	"log/slog"
	"strings"

	"railcheck/internal/logging"
)

// DefaultHighlightClass is the style class shared by every overlay shape.
const DefaultHighlightClass = "hl"

// Builder scales region maps into display space.
type Builder struct {
	class  string
	logger *slog.Logger
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithHighlightClass overrides the class attached to every drawn shape.
func WithHighlightClass(class string) BuilderOption {
	return func(b *Builder) {
		if class = strings.TrimSpace(class); class != "" {
			b.class = class
		}
	}
}

// WithLogger routes skip diagnostics to logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logging.NewComponentLogger(logger, "overlay")
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{class: DefaultHighlightClass, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build clears canvas, sizes it to the image's display dimensions and draws
// one shape per usable region of m, in order. It returns the number of shapes
// drawn. A nil image, map or canvas makes the call a no-op.
func (b *Builder) Build(img Image, m *Map, canvas Canvas) int {
	if img == nil || m == nil || canvas == nil {
		b.logger.Debug("overlay build skipped",
			logging.Bool("has_image", img != nil),
			logging.Bool("has_map", m != nil),
			logging.Bool("has_canvas", canvas != nil),
		)
		return 0
	}

	dims := img.Dimensions()
	sx, sy := dims.Scale()

	canvas.Clear()
	canvas.SetFrame(dims.DisplayWidth, dims.DisplayHeight)

	drawn := 0
	for i, region := range m.Regions {
		shape, ok := region.Scale(sx, sy)
		if !ok {
			b.logger.Debug("overlay region skipped",
				logging.String(logging.FieldPlan, m.ID),
				logging.Int("index", i),
				logging.String("shape", region.Shape.String()),
				logging.Int("coords", len(region.Coords)),
			)
			continue
		}
		canvas.Append(Element{Shape: shape, Class: b.class, Zone: region.Zone})
		drawn++
	}
	return drawn
}
