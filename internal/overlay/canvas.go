package overlay

// Element is one shape drawn on a canvas.
type Element struct {
	Shape Shape
	Class string
	Zone  string
}

// Canvas is a vector drawing surface that owns the overlay shapes.
type Canvas interface {
	// Clear removes every previously drawn element.
	Clear()
	// SetFrame sizes the coordinate frame to 0 0 width height.
	SetFrame(width, height float64)
	Append(el Element)
}
