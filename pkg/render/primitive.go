package render

import (
	"encoding/json"
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// Kind tags the concrete type behind a Primitive
type Kind int

const (
	KindCircle Kind = iota + 1
	KindArc
	KindLine
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindArc:
		return "arc"
	case KindLine:
		return "line"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Role says what part of the schematic a primitive draws
type Role string

const (
	RoleReference  Role = "reference"
	RoleRevolution Role = "revolution"
	RoleResidual   Role = "residual"
	RoleGuide      Role = "guide"
	RoleCenter     Role = "center"
)

// Style is the paint applied to a primitive. Colours are CSS hex strings or "none".
type Style struct {
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	LineCap     string  `json:"lineCap,omitempty"`
}

// Alpha is the effective opacity; zero means fully opaque
func (s Style) Alpha() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Primitive is one element of a drawing. The concrete types are Circle, Arc,
// Line and Point; a drawing surface switches on them.
type Primitive interface {
	Kind() Kind
	fmt.Stringer
}

// Circle is a full circle outline
type Circle struct {
	Center vec.Vec2 `json:"center"`
	Radius float64  `json:"r"`
	Role   Role     `json:"role"`
	Style  Style    `json:"style"`
}

// Arc is a circular arc from StartAngle to EndAngle (radians, y axis down).
// Start and End are the precomputed endpoints.
type Arc struct {
	Center     vec.Vec2 `json:"center"`
	Radius     float64  `json:"r"`
	StartAngle float64  `json:"startAngle"`
	EndAngle   float64  `json:"endAngle"`
	Start      vec.Vec2 `json:"start"`
	End        vec.Vec2 `json:"end"`
	LargeArc   bool     `json:"largeArc"`
	Sweep      bool     `json:"sweep"`
	Role       Role     `json:"role"`
	Style      Style    `json:"style"`
}

// Line is a straight segment
type Line struct {
	From  vec.Vec2 `json:"from"`
	To    vec.Vec2 `json:"to"`
	Role  Role     `json:"role"`
	Style Style    `json:"style"`
}

// Point is a small filled marker
type Point struct {
	Center vec.Vec2 `json:"center"`
	Radius float64  `json:"r"`
	Role   Role     `json:"role"`
	Style  Style    `json:"style"`
}

func (Circle) Kind() Kind { return KindCircle }
func (Arc) Kind() Kind    { return KindArc }
func (Line) Kind() Kind   { return KindLine }
func (Point) Kind() Kind  { return KindPoint }

func (c Circle) String() string {
	return fmt.Sprintf("circle(%s c=%.3f,%.3f r=%.3f)", c.Role, c.Center.X, c.Center.Y, c.Radius)
}

func (a Arc) String() string {
	return fmt.Sprintf("arc(%s c=%.3f,%.3f r=%.3f %.4f..%.4f large=%t)", a.Role, a.Center.X, a.Center.Y, a.Radius, a.StartAngle, a.EndAngle, a.LargeArc)
}

func (l Line) String() string {
	return fmt.Sprintf("line(%s %.3f,%.3f -> %.3f,%.3f)", l.Role, l.From.X, l.From.Y, l.To.X, l.To.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("point(%s c=%.3f,%.3f r=%.3f)", p.Role, p.Center.X, p.Center.Y, p.Radius)
}

// The MarshalJSON methods add a "kind" tag so a list of primitives can be
// decoded by a client that only sees JSON.

func (c Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindCircle, plain(c)})
}

func (a Arc) MarshalJSON() ([]byte, error) {
	type plain Arc
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindArc, plain(a)})
}

func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindLine, plain(l)})
}

func (p Point) MarshalJSON() ([]byte, error) {
	type plain Point
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindPoint, plain(p)})
}
