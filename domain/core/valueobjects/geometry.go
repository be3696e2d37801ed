package valueobjects

import "math"

// Position is a node's top-left corner on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// IsFinite reports whether both coordinates are real numbers.
func (p Position) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Dimensions is a node's rendered box size.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewDimensions creates dimensions
func NewDimensions(width, height float64) Dimensions {
	return Dimensions{Width: width, Height: height}
}

// IsFinite reports whether both sides are real numbers.
func (d Dimensions) IsFinite() bool {
	return isFinite(d.Width) && isFinite(d.Height)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
