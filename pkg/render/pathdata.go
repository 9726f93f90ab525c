package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// CoordinatePrecision is the number of decimals written for SVG coordinates
const CoordinatePrecision = 3

// PathCommand is a single SVG path command such as 'M 5.387 5.387'
type PathCommand struct {
	Letter string
	Params []float64
}

var (
	commandSplit = regexp.MustCompile(`([MLHVCSQTAZmlhvcsqtaz])`)
	paramSplit   = regexp.MustCompile(`[\s,]+`)
)

// paramCount is how many numbers each supported command letter takes
var paramCount = map[string]int{
	"M": 2, "m": 2,
	"L": 2, "l": 2,
	"H": 1, "h": 1,
	"V": 1, "v": 1,
	"Q": 4, "q": 4,
	"A": 7, "a": 7,
	"Z": 0, "z": 0,
}

// NewPathCommand validates the number of parameters for the letter
func NewPathCommand(letter string, params ...float64) (PathCommand, error) {
	want, ok := paramCount[letter]
	if !ok {
		return PathCommand{}, fmt.Errorf("command letter %s not currently supported", letter)
	}
	if len(params) != want {
		return PathCommand{}, fmt.Errorf("command %s requires exactly %d parameters, got %d", letter, want, len(params))
	}
	return PathCommand{Letter: letter, Params: params}, nil
}

// ArcPathCommands converts an Arc into a move to its start followed by an
// elliptical arc command with equal radii
func ArcPathCommands(a Arc) []PathCommand {
	return []PathCommand{
		{Letter: "M", Params: []float64{a.Start.X, a.Start.Y}},
		{Letter: "A", Params: []float64{
			a.Radius, a.Radius, 0,
			flag(a.LargeArc), flag(a.Sweep),
			a.End.X, a.End.Y,
		}},
	}
}

func (pc PathCommand) String() string {
	parts := make([]string, 0, len(pc.Params)+1)
	parts = append(parts, pc.Letter)
	for _, p := range pc.Params {
		parts = append(parts, formatCoord(p))
	}
	return strings.Join(parts, " ")
}

// PathData joins commands into the value of a d attribute
func PathData(cmds []PathCommand) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParsePathData reads the value of a d attribute back into commands
func ParsePathData(d string) ([]PathCommand, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("path data cannot be empty")
	}
	// put each command letter at the start of its own chunk
	chunks := strings.Split(commandSplit.ReplaceAllString(d, "\x00$1"), "\x00")

	var cmds []PathCommand
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		letter := chunk[:1]
		var params []float64
		for _, field := range paramSplit.Split(strings.TrimSpace(chunk[1:]), -1) {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid parameter value: %s", field)
			}
			params = append(params, v)
		}
		cmd, err := NewPathCommand(letter, params...)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("no commands found in path data %q", d)
	}
	return cmds, nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func formatCoord(v float64) string {
	r := scalar.Round(v, CoordinatePrecision)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
