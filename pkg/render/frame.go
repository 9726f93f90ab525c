package render

import (
	"fmt"
	"math"
)

// CanvasFrame describes the area a drawing must fit into.
// PixelsPerUnit maps one unit of radius to pixels before any shrinking.
type CanvasFrame struct {
	Width         float64 `json:"width" yaml:"width"`
	Height        float64 `json:"height" yaml:"height"`
	Margin        float64 `json:"margin" yaml:"margin"`
	PixelsPerUnit float64 `json:"pixelsPerUnit" yaml:"pixels_per_unit"`
}

// MaxCanvasPx bounds each side of a canvas. Rasterizing allocates
// width*height*4 bytes.
const MaxCanvasPx = 8192

// DefaultFrame is an 800x480 canvas with a 20px margin at 20px per unit
func DefaultFrame() CanvasFrame {
	return CanvasFrame{
		Width:         800,
		Height:        480,
		Margin:        20,
		PixelsPerUnit: 20,
	}
}

// Validate rejects frames that cannot hold a drawing
func (f CanvasFrame) Validate() error {
	if !(f.Width > 0) || math.IsInf(f.Width, 0) {
		return fmt.Errorf("canvas width must be a positive number, got %v", f.Width)
	}
	if !(f.Height > 0) || math.IsInf(f.Height, 0) {
		return fmt.Errorf("canvas height must be a positive number, got %v", f.Height)
	}
	if f.Width > MaxCanvasPx || f.Height > MaxCanvasPx {
		return fmt.Errorf("canvas %vx%v exceeds the %dpx limit", f.Width, f.Height, MaxCanvasPx)
	}
	if !(f.Margin >= 0) || math.IsInf(f.Margin, 0) {
		return fmt.Errorf("canvas margin must not be negative, got %v", f.Margin)
	}
	if !(f.PixelsPerUnit > 0) || math.IsInf(f.PixelsPerUnit, 0) {
		return fmt.Errorf("pixels per unit must be a positive number, got %v", f.PixelsPerUnit)
	}
	if f.MaxRadius() <= 0 {
		return fmt.Errorf("margin %v leaves no room on a %vx%v canvas", f.Margin, f.Width, f.Height)
	}
	return nil
}

// Center is the geometric middle of the frame
func (f CanvasFrame) Center() (float64, float64) {
	return f.Width / 2, f.Height / 2
}

// MaxRadius is the largest circle radius in pixels that keeps the margin clear
func (f CanvasFrame) MaxRadius() float64 {
	return math.Min(f.Width, f.Height)/2 - f.Margin
}
