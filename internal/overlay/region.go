package overlay

import (
	"math"
	"strconv"
	"strings"
)

// ShapeKind identifies the geometry of a region.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapePolygon
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "poly"
	case ShapeCircle:
		return "circle"
	default:
		return "rect"
	}
}

// ParseShapeKind maps an area shape keyword to a kind. Matching is
// case-insensitive; unknown keywords, the empty string and the legacy numeric
// value "0" all mean rectangle.
func ParseShapeKind(raw string) ShapeKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "poly", "polygon":
		return ShapePolygon
	case "circle", "circ":
		return ShapeCircle
	default:
		return ShapeRect
	}
}

// Region is one clickable area of a plan in natural image pixels.
type Region struct {
	Shape  ShapeKind
	Coords []float64
	// Zone is the human label carried by the area (data-zone, alt or title).
	Zone string
	Href string
}

// NewRegion parses a shape keyword and a raw coordinate list.
func NewRegion(shape, coords string) Region {
	return Region{Shape: ParseShapeKind(shape), Coords: ParseCoords(coords)}
}

// ParseCoords splits a comma separated coordinate list. An empty entry
// between commas counts as 0; values that are not finite numbers are dropped.
func ParseCoords(raw string) []float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			coords = append(coords, 0)
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		coords = append(coords, value)
	}
	return coords
}

// Scale converts the region into a display-space shape. ok is false when the
// region has too few coordinates for its kind.
func (r Region) Scale(sx, sy float64) (Shape, bool) {
	c := r.Coords
	switch r.Shape {
	case ShapePolygon:
		pairs := len(c) / 2
		if pairs < 3 {
			return nil, false
		}
		points := make([]Point, pairs)
		for i := range points {
			points[i] = Point{X: c[2*i] * sx, Y: c[2*i+1] * sy}
		}
		return Polygon{Points: points}, true
	case ShapeCircle:
		if len(c) < 3 {
			return nil, false
		}
		// The radius scales by the mean of the two axis factors.
		return Circle{
			Center: Point{X: c[0] * sx, Y: c[1] * sy},
			Radius: c[2] * ((sx + sy) / 2),
		}, true
	default:
		if len(c) < 4 {
			return nil, false
		}
		x1, y1, x2, y2 := c[0], c[1], c[2], c[3]
		return Rect{
			X:      math.Min(x1, x2) * sx,
			Y:      math.Min(y1, y2) * sy,
			Width:  math.Abs(x2-x1) * sx,
			Height: math.Abs(y2-y1) * sy,
		}, true
	}
}

// Contains reports whether a natural-space point falls inside the region.
func (r Region) Contains(x, y float64) bool {
	shape, ok := r.Scale(1, 1)
	if !ok {
		return false
	}
	return shape.Contains(Point{X: x, Y: y})
}

// Map is a named group of regions, the parsed form of a <map> element.
type Map struct {
	ID      string
	Regions []Region
}

// Hit returns the first region containing the natural-space point.
func (m *Map) Hit(x, y float64) (Region, bool) {
	if m == nil {
		return Region{}, false
	}
	for _, region := range m.Regions {
		if region.Contains(x, y) {
			return region, true
		}
	}
	return Region{}, false
}
