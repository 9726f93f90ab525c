package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Unit is the unit an input angle is expressed in
type Unit int

const (
	Degrees Unit = iota
	Radians
)

func (u Unit) String() string {
	if u == Radians {
		return "rad"
	}
	return "deg"
}

// MarshalText writes the unit as "deg" or "rad"
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts anything ParseUnit accepts
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseUnit reads a unit name. An empty string means degrees.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deg", "degree", "degrees", "°":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	default:
		return Degrees, fmt.Errorf("%w: %q (use deg or rad)", ErrInvalidUnit, s)
	}
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees wraps deg into [0, 360)
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		return 0
	}
	return d
}

// NormalizeRadians wraps rad into [0, 2π)
func NormalizeRadians(rad float64) float64 {
	r := math.Mod(rad, FullTurn)
	if r < 0 {
		r += FullTurn
	}
	if r >= FullTurn {
		return 0
	}
	return r
}
