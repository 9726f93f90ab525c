package geometry

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
)

// DisplayPrecision is the number of decimal digits kept when presenting values
const DisplayPrecision = 5

// Undefined replaces any value that is not a finite number
const Undefined = "—"

// Display holds the five presentation strings for a set of ArcMetrics
type Display struct {
	ArcLength   string `json:"arcLength"`
	ChordLength string `json:"chordLength"`
	SectorArea  string `json:"sectorArea"`
	AngleDeg    string `json:"angleDeg"`
	AngleRad    string `json:"angleRad"`
}

// EmptyDisplay is what a cleared results panel shows
func EmptyDisplay() Display {
	return Display{
		ArcLength:   Undefined,
		ChordLength: Undefined,
		SectorArea:  Undefined,
		AngleDeg:    Undefined,
		AngleRad:    Undefined,
	}
}

// FormatValue rounds v to DisplayPrecision decimals and drops trailing zeros
func FormatValue(v float64) string {
	if !isFinite(v) {
		return Undefined
	}
	r := scalar.Round(v, DisplayPrecision)
	if r == 0 {
		// avoid "-0"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Display formats the metrics. Angles beyond one revolution show the raw value
// followed by the normalized one in brackets.
func (m ArcMetrics) Display() Display {
	d := Display{
		ArcLength:   FormatValue(m.ArcLength),
		ChordLength: FormatValue(m.ChordLength),
		SectorArea:  FormatValue(m.SectorArea),
		AngleDeg:    FormatValue(m.AngleDegTotal) + "°",
		AngleRad:    FormatValue(m.AngleRadTotal) + " rad",
	}
	if m.AngleDegTotal > 360 {
		d.AngleDeg = fmt.Sprintf("%s° (%s°)", FormatValue(m.AngleDegTotal), FormatValue(m.AngleDegNormalized))
	}
	if m.Exceeds() {
		d.AngleRad = fmt.Sprintf("%s rad (%s rad)", FormatValue(m.AngleRadTotal), FormatValue(m.AngleRadNormalized))
	}
	return d
}

// Caption describes how many whole turns the angle makes. The drawing shows a
// single revolution indicator however many there are, so this text carries
// the count.
func (m ArcMetrics) Caption() string {
	n := m.FullRevolutions
	if n == 0 {
		return ""
	}
	turns := "full revolutions"
	if n == 1 {
		turns = "full revolution"
	}
	residual := m.AngleDegNormalized
	if math.Abs(residual) < 1e-9 || !isFinite(residual) {
		return fmt.Sprintf("%d %s", n, turns)
	}
	return fmt.Sprintf("%d %s + %s°", n, turns, FormatValue(residual))
}
