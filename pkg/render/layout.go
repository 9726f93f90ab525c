// Package render turns an arc's radius and total angle into a list of drawing
// primitives scaled to fit a canvas, and draws those primitives as SVG markup
// or as a PNG image.
package render

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

const (
	// MinRadiusPx keeps tiny circles visible
	MinRadiusPx = 8.0
	// ResidualEpsilon is the smallest leftover angle drawn as an arc
	ResidualEpsilon = 1e-9
	// CenterMarkerRadius is the radius of the dot drawn for whole revolutions
	CenterMarkerRadius = 3.0
	// TurnTolerance, relative to the total angle, is how far short of a whole
	// turn a leftover may fall and still count as one. It only covers the
	// rounding of a degree to radian conversion.
	TurnTolerance = 1e-12

	fullTurn = 2 * math.Pi
)

var (
	ReferenceStyle  = Style{Stroke: "#e9ecef", StrokeWidth: 1, Fill: "none"}
	RevolutionStyle = Style{Stroke: "#0d6efd", StrokeWidth: 3, Fill: "none", Opacity: 0.25}
	ResidualStyle   = Style{Stroke: "#0d6efd", StrokeWidth: 3, Fill: "none", LineCap: "round"}
	GuideStyle      = Style{Stroke: "#6c757d", StrokeWidth: 1}
	CenterStyle     = Style{Fill: "#212529"}
)

// Scale is the factor applied to radius*PixelsPerUnit so the circle fits the
// frame. It only ever shrinks.
func Scale(radius float64, frame CanvasFrame) float64 {
	if radius == 0 {
		return 1
	}
	return math.Min(1, frame.MaxRadius()/(radius*frame.PixelsPerUnit))
}

// RadiusPx is the on-canvas radius, never below MinRadiusPx. A radius whose
// unscaled size overflows is drawn at the largest radius the frame holds.
func RadiusPx(radius float64, frame CanvasFrame) float64 {
	px := radius * frame.PixelsPerUnit
	if math.IsInf(px, 0) || math.IsNaN(px) {
		return math.Max(MinRadiusPx, frame.MaxRadius())
	}
	return math.Max(MinRadiusPx, px*Scale(radius, frame))
}

// Layout describes an arc of angleRadTotal radians on a circle of the given
// radius as primitives centred in frame.
//
// The output is, in order: the reference circle; one highlighted circle if the
// angle contains at least one whole revolution (one, however many there are);
// then either the leftover arc with its two guide lines, or a centre marker
// when nothing is left over.
func Layout(radius, angleRadTotal float64, frame CanvasFrame) []Primitive {
	cx, cy := frame.Center()
	center := vec.Vec2{X: cx, Y: cy}
	rPx := RadiusPx(radius, frame)

	prims := []Primitive{
		Circle{Center: center, Radius: rPx, Role: RoleReference, Style: ReferenceStyle},
	}

	fullCircles := math.Floor(angleRadTotal / fullTurn)
	residual := math.Mod(angleRadTotal, fullTurn)
	if fullTurn-residual <= TurnTolerance*math.Max(1, angleRadTotal) {
		fullCircles++
		residual = 0
	}

	if fullCircles > 0 {
		prims = append(prims, Circle{Center: center, Radius: rPx, Role: RoleRevolution, Style: RevolutionStyle})
	}

	if residual > ResidualEpsilon {
		start := -residual / 2
		end := start + residual
		from := pointOnCircle(center, rPx, start)
		to := pointOnCircle(center, rPx, end)
		prims = append(prims,
			Arc{
				Center:     center,
				Radius:     rPx,
				StartAngle: start,
				EndAngle:   end,
				Start:      from,
				End:        to,
				LargeArc:   residual > math.Pi,
				Sweep:      true,
				Role:       RoleResidual,
				Style:      ResidualStyle,
			},
			Line{From: center, To: from, Role: RoleGuide, Style: GuideStyle},
			Line{From: center, To: to, Role: RoleGuide, Style: GuideStyle},
		)
	} else {
		prims = append(prims, Point{Center: center, Radius: CenterMarkerRadius, Role: RoleCenter, Style: CenterStyle})
	}
	return prims
}

func pointOnCircle(c vec.Vec2, r, angle float64) vec.Vec2 {
	sin, cos := math.Sincos(angle)
	return vec.Vec2{X: c.X + r*cos, Y: c.Y + r*sin}
}
