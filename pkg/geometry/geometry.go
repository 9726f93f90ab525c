// Package geometry computes the measurements of a circular arc from an angle
// and a radius: arc length, chord length, sector area and the angle in both
// units, raw and reduced to a single revolution.
//
// Everything here is full precision. Rounding for display happens in Display.
package geometry

import (
	"math"
)

// FullTurn is one revolution in radians
const FullTurn = 2 * math.Pi

// ArcInput is an angle in a given unit plus the radius of the circle it subtends
type ArcInput struct {
	AngleValue float64 `json:"angle"`
	Unit       Unit    `json:"unit"`
	Radius     float64 `json:"radius"`
}

// ArcMetrics holds everything derived from an ArcInput.
// Arc length and sector area grow without bound with the angle; the chord and
// the normalized angles depend only on where the arc ends.
type ArcMetrics struct {
	Radius             float64 `json:"radius"`
	ArcLength          float64 `json:"arcLength"`
	ChordLength        float64 `json:"chordLength"`
	SectorArea         float64 `json:"sectorArea"`
	AngleDegTotal      float64 `json:"angleDegTotal"`
	AngleRadTotal      float64 `json:"angleRadTotal"`
	AngleDegNormalized float64 `json:"angleDegNormalized"`
	AngleRadNormalized float64 `json:"angleRadNormalized"`
	FullRevolutions    int     `json:"fullRevolutions"`
}

// Validate checks the invariants of an ArcInput
func (in ArcInput) Validate() error {
	if !isFinite(in.AngleValue) {
		return &ValidationError{Kind: InvalidNumber, Field: "angle", Value: in.AngleValue}
	}
	if !isFinite(in.Radius) {
		return &ValidationError{Kind: InvalidNumber, Field: "radius", Value: in.Radius}
	}
	if in.Radius <= 0 {
		return &ValidationError{Kind: NonPositiveRadius, Field: "radius", Value: in.Radius}
	}
	if in.AngleValue <= 0 {
		return &ValidationError{Kind: NonPositiveAngle, Field: "angle", Value: in.AngleValue}
	}
	return nil
}

// Compute validates the input and derives its ArcMetrics
func Compute(angleValue float64, unit Unit, radius float64) (ArcMetrics, error) {
	return ArcInput{AngleValue: angleValue, Unit: unit, Radius: radius}.Compute()
}

// Compute validates the input and derives its ArcMetrics
func (in ArcInput) Compute() (ArcMetrics, error) {
	if err := in.Validate(); err != nil {
		return ArcMetrics{}, err
	}

	// The unit the caller gave is reduced exactly; the other one is derived
	// from it so both describe the same end position.
	var deg, rad, degNorm, radNorm float64
	var turns int
	switch in.Unit {
	case Radians:
		rad = in.AngleValue
		deg = RadToDeg(rad)
		radNorm = NormalizeRadians(rad)
		degNorm = below(RadToDeg(radNorm), 360)
		turns = wholeTurns(rad, FullTurn)
	default:
		deg = in.AngleValue
		rad = DegToRad(deg)
		degNorm = NormalizeDegrees(deg)
		radNorm = below(DegToRad(degNorm), FullTurn)
		turns = wholeTurns(deg, 360)
	}

	r := in.Radius
	return ArcMetrics{
		Radius:             r,
		ArcLength:          r * rad,
		ChordLength:        chord(r, radNorm),
		SectorArea:         0.5 * r * r * rad,
		AngleDegTotal:      deg,
		AngleRadTotal:      rad,
		AngleDegNormalized: degNorm,
		AngleRadNormalized: radNorm,
		FullRevolutions:    turns,
	}, nil
}

// ChordLength is the straight-line distance between the ends of an arc of
// angle rad on a circle of radius r. Only the arc's end position matters, so
// the angle is reduced to one revolution and a reflex angle is replaced by its
// complement, which spans the same chord.
func ChordLength(r, rad float64) float64 {
	return chord(r, NormalizeRadians(rad))
}

func chord(r, theta float64) float64 {
	if theta > math.Pi {
		theta = FullTurn - theta
	}
	return 2 * math.Abs(r) * math.Sin(theta/2)
}

// Revolutions is the number of complete turns contained in rad
func Revolutions(rad float64) int {
	return wholeTurns(rad, FullTurn)
}

func wholeTurns(v, period float64) int {
	if !isFinite(v) || v <= 0 {
		return 0
	}
	n := math.Floor(v / period)
	if n >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// below keeps a converted angle inside [0, limit) when rounding lands on limit
func below(v, limit float64) float64 {
	if v >= limit {
		return math.Nextafter(limit, 0)
	}
	return v
}

// Exceeds reports whether the angle goes beyond a single revolution, in which
// case callers should present both the raw and the normalized angle.
func (m ArcMetrics) Exceeds() bool {
	return m.FullRevolutions > 1 || (m.FullRevolutions == 1 && m.AngleRadNormalized > 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
