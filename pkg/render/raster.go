package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// maxSegmentPx is the longest straight segment used when flattening curves
const maxSegmentPx = 2.0

// Rasterize paints primitives onto a white image the size of frame.
// Strokes are converted to filled outlines: circles become rings, arcs become
// bands, lines become quads.
func Rasterize(frame CanvasFrame, prims []Primitive) (*image.RGBA, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	w, h := int(math.Ceil(frame.Width)), int(math.Ceil(frame.Height))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	p := &painter{dst: img, r: vector.NewRasterizer(w, h)}
	for _, prim := range prims {
		if err := p.paint(prim); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// WritePNG rasterizes primitives and encodes the result as PNG
func WritePNG(w io.Writer, frame CanvasFrame, prims []Primitive) error {
	img, err := Rasterize(frame, prims)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNGFile rasterizes primitives into a PNG file at filePath
func WritePNGFile(filePath string, frame CanvasFrame, prims []Primitive) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create PNG file %s: %w", filePath, err)
	}
	if err := WritePNG(f, frame, prims); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type painter struct {
	dst *image.RGBA
	r   *vector.Rasterizer
}

func (p *painter) paint(prim Primitive) error {
	switch v := prim.(type) {
	case Circle:
		if c, ok := ParseColor(v.Style.Fill, v.Style.Alpha()); ok {
			p.fill(c, circlePolygon(v.Center, v.Radius, false))
		}
		if c, ok := ParseColor(v.Style.Stroke, v.Style.Alpha()); ok {
			p.ring(c, v.Center, v.Radius, strokeWidth(v.Style))
		}
	case Arc:
		if c, ok := ParseColor(v.Style.Stroke, v.Style.Alpha()); ok {
			width := strokeWidth(v.Style)
			p.fill(c, arcBand(v, width))
			if v.Style.LineCap == "round" {
				p.fill(c, circlePolygon(v.Start, width/2, false))
				p.fill(c, circlePolygon(v.End, width/2, false))
			}
		}
	case Line:
		if c, ok := ParseColor(v.Style.Stroke, v.Style.Alpha()); ok {
			if quad := lineQuad(v.From, v.To, strokeWidth(v.Style)); quad != nil {
				p.fill(c, quad)
			}
		}
	case Point:
		if c, ok := ParseColor(v.Style.Fill, v.Style.Alpha()); ok {
			p.fill(c, circlePolygon(v.Center, v.Radius, false))
		}
	default:
		return fmt.Errorf("unsupported primitive %T", prim)
	}
	return nil
}

// fill draws the closed polygons in one pass. Opposite windings cancel, which
// is how rings get their hole.
func (p *painter) fill(c color.Color, polys ...[]vec.Vec2) {
	b := p.dst.Bounds()
	p.r.Reset(b.Dx(), b.Dy())
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		p.r.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, pt := range poly[1:] {
			p.r.LineTo(float32(pt.X), float32(pt.Y))
		}
		p.r.ClosePath()
	}
	p.r.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

func (p *painter) ring(c color.Color, center vec.Vec2, radius, width float64) {
	outer := radius + width/2
	inner := radius - width/2
	if inner <= 0 {
		p.fill(c, circlePolygon(center, outer, false))
		return
	}
	p.fill(c, circlePolygon(center, outer, false), circlePolygon(center, inner, true))
}

func strokeWidth(s Style) float64 {
	if s.StrokeWidth > 0 {
		return s.StrokeWidth
	}
	return 1
}

func segments(radius, sweep float64) int {
	n := int(math.Ceil(math.Abs(sweep) * radius / maxSegmentPx))
	return min(max(n, 16), 4096)
}

func circlePolygon(c vec.Vec2, radius float64, reverse bool) []vec.Vec2 {
	n := segments(radius, fullTurn)
	pts := make([]vec.Vec2, n)
	for i := range n {
		a := fullTurn * float64(i) / float64(n)
		if reverse {
			a = -a
		}
		pts[i] = pointOnCircle(c, radius, a)
	}
	return pts
}

// arcBand is the outline of a stroked arc: the outer edge forwards, then the
// inner edge back
func arcBand(a Arc, width float64) []vec.Vec2 {
	outer := a.Radius + width/2
	inner := math.Max(a.Radius-width/2, 0)
	sweep := a.EndAngle - a.StartAngle
	n := segments(outer, sweep)

	pts := make([]vec.Vec2, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		pts = append(pts, pointOnCircle(a.Center, outer, a.StartAngle+sweep*float64(i)/float64(n)))
	}
	for i := n; i >= 0; i-- {
		pts = append(pts, pointOnCircle(a.Center, inner, a.StartAngle+sweep*float64(i)/float64(n)))
	}
	return pts
}

func lineQuad(from, to vec.Vec2, width float64) []vec.Vec2 {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	return []vec.Vec2{
		{X: from.X + nx, Y: from.Y + ny},
		{X: to.X + nx, Y: to.Y + ny},
		{X: to.X - nx, Y: to.Y - ny},
		{X: from.X - nx, Y: from.Y - ny},
	}
}

// ParseColor reads "#rgb" or "#rrggbb" and applies alpha in [0,1].
// It reports false for "", "none" and anything it cannot read.
func ParseColor(s string, alpha float64) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(math.Round(255 * math.Max(0, math.Min(1, alpha)))),
	}, true
}
