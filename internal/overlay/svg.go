package overlay

import (
	"bytes"
	"io"
	"sync"

	svg "github.com/ajstarks/svgo/float"
	"golang.org/x/net/html"
)

// SVGCanvas records overlay elements and renders them as an SVG document.
// It is safe for concurrent use.
type SVGCanvas struct {
	mu       sync.Mutex
	width    float64
	height   float64
	elements []Element
}

func NewSVGCanvas() *SVGCanvas {
	return &SVGCanvas{}
}

func (c *SVGCanvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = nil
}

func (c *SVGCanvas) SetFrame(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
}

func (c *SVGCanvas) Append(el Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = append(c.elements, el)
}

// Frame returns the current coordinate frame size.
func (c *SVGCanvas) Frame() (width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Elements returns a copy of the drawn elements in drawing order.
func (c *SVGCanvas) Elements() []Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Element(nil), c.elements...)
}

// Hit returns the topmost element containing the display-space point.
func (c *SVGCanvas) Hit(x, y float64) (Element, bool) {
	elements := c.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		if elements[i].Shape.Contains(Point{X: x, Y: y}) {
			return elements[i], true
		}
	}
	return Element{}, false
}

// Decimals is the number of fractional digits written for every coordinate.
const Decimals = 2

// WriteTo renders the canvas as an SVG document framed by viewBox
// "0 0 width height".
func (c *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	width, height := c.Frame()
	cw := &countingWriter{w: w}
	doc := svg.New(cw)
	doc.Decimals = Decimals
	doc.Startview(width, height, 0, 0, width, height)
	for _, el := range c.Elements() {
		attrs := elementAttrs(el)
		switch s := el.Shape.(type) {
		case Rect:
			doc.Rect(s.X, s.Y, s.Width, s.Height, attrs...)
		case Polygon:
			if len(s.Points) == 0 {
				continue
			}
			xs := make([]float64, len(s.Points))
			ys := make([]float64, len(s.Points))
			for i, p := range s.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			doc.Polygon(xs, ys, attrs...)
		case Circle:
			doc.Circle(s.Center.X, s.Center.Y, s.Radius, attrs...)
		}
	}
	doc.End()
	return cw.n, cw.err
}

// String renders the canvas, returning an empty string on write failure.
func (c *SVGCanvas) String() string {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func elementAttrs(el Element) []string {
	var attrs []string
	if el.Class != "" {
		attrs = append(attrs, `class="`+html.EscapeString(el.Class)+`"`)
	}
	if el.Zone != "" {
		attrs = append(attrs, `data-zone="`+html.EscapeString(el.Zone)+`"`)
	}
	return attrs
}

// countingWriter keeps the byte count and first error, since the svg writer
// drops both.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
