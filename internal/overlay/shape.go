package overlay

import "math"

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is a scaled region ready to be drawn. The concrete types are Rect,
// Polygon and Circle.
type Shape interface {
	Kind() ShapeKind
	Contains(p Point) bool
}

type Rect struct {
	X, Y, Width, Height float64
}

func (Rect) Kind() ShapeKind { return ShapeRect }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

type Polygon struct {
	Points []Point
}

func (Polygon) Kind() ShapeKind { return ShapePolygon }

// Contains uses the even-odd rule.
func (g Polygon) Contains(p Point) bool {
	inside := false
	n := len(g.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := g.Points[i], g.Points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			crossX := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < crossX {
				inside = !inside
			}
		}
	}
	return inside
}

type Circle struct {
	Center Point
	Radius float64
}

func (Circle) Kind() ShapeKind { return ShapeCircle }

func (c Circle) Contains(p Point) bool {
	return math.Hypot(p.X-c.Center.X, p.Y-c.Center.Y) <= c.Radius
}
