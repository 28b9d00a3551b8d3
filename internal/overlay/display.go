package overlay

// DisplayContext pairs the natural size of a reference image with the size
// it is currently rendered at.
type DisplayContext struct {
	NaturalWidth  float64 `json:"natural_width"`
	NaturalHeight float64 `json:"natural_height"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// Image is anything that can report its natural and rendered dimensions.
type Image interface {
	Dimensions() DisplayContext
}

// Dimensions lets a DisplayContext be passed wherever an Image is expected.
func (d DisplayContext) Dimensions() DisplayContext { return d }

// Scale returns the horizontal and vertical factors from natural to display
// space. An axis whose natural size is unknown falls back to the display size,
// and an axis with no usable size at all scales by 1.
func (d DisplayContext) Scale() (sx, sy float64) {
	return axisScale(d.DisplayWidth, d.NaturalWidth), axisScale(d.DisplayHeight, d.NaturalHeight)
}

func axisScale(display, natural float64) float64 {
	if natural <= 0 {
		natural = display
	}
	if natural <= 0 {
		return 1
	}
	return display / natural
}
