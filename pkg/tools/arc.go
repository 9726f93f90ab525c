package tools

import (
	"errors"
	"math"

	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/geometry"
	"github.com/richard-senior/arcmcp/pkg/protocol"
	"github.com/richard-senior/arcmcp/pkg/report"
	"github.com/richard-senior/arcmcp/pkg/util"
)

// ArcResult is the structured content of an arc_calculate call
type ArcResult struct {
	Input geometry.ArcInput `json:"input"`
	// nil when a measurement overflows and cannot be written as JSON
	Metrics  *geometry.ArcMetrics `json:"metrics,omitempty"`
	Display  geometry.Display     `json:"display"`
	Caption  string               `json:"caption,omitempty"`
	Markdown string               `json:"markdown"`
}

var arcInputProperties = map[string]protocol.ToolProperty{
	"angle": {
		Type:        "number",
		Description: "The central angle of the arc. Must be greater than 0 and may exceed a full turn.",
	},
	"unit": {
		Type:        "string",
		Description: "The unit of angle: deg or rad",
		Enum:        []string{"deg", "rad"},
		Default:     "deg",
	},
	"radius": {
		Type:        "number",
		Description: "The radius of the circle. Must be greater than 0.",
	},
}

// ArcCalculateTool returns the arc_calculate tool definition
func ArcCalculateTool() protocol.Tool {
	return protocol.Tool{
		Name: "arc_calculate",
		Description: `Calculates the measurements of a circular arc from its central angle and radius:
arc length, chord length, sector area and the angle in degrees and radians.
Angles beyond one revolution are reported as given and reduced to a single turn.`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: arcInputProperties,
			Required:   []string{"angle", "radius"},
		},
	}
}

// HandleArcCalculate handles the arc_calculate tool invocation
func HandleArcCalculate(params any) (any, error) {
	logger.Info("Handling arc_calculate tool invocation")

	args, err := util.ArgumentMap(params)
	if err != nil {
		return nil, err
	}
	in, err := ParseArcInput(args)
	if err != nil {
		return nil, err
	}
	result, err := Calculate(in)
	if err != nil {
		return nil, err
	}
	return &protocol.ToolResult{
		Content:           []protocol.Content{protocol.NewTextContent(result.Markdown)},
		StructuredContent: result,
	}, nil
}

// Calculate measures the arc and renders its results panel
func Calculate(in geometry.ArcInput) (*ArcResult, error) {
	m, err := in.Compute()
	if err != nil {
		return nil, err
	}
	d := m.Display()
	md, err := report.Markdown(in, m, d)
	if err != nil {
		return nil, err
	}
	result := &ArcResult{
		Input:    in,
		Display:  d,
		Caption:  m.Caption(),
		Markdown: md,
	}
	if metricsFinite(m) {
		result.Metrics = &m
	} else {
		logger.Warn("Arc measurements overflowed for input", in)
	}
	return result, nil
}

// ParseArcInput reads angle, unit and radius from tool arguments. Numbers may
// be JSON numbers or numeric strings; anything else is an InvalidNumber.
func ParseArcInput(args map[string]any) (geometry.ArcInput, error) {
	angle, err := numberArg(args, "angle")
	if err != nil {
		return geometry.ArcInput{}, err
	}
	radius, err := numberArg(args, "radius")
	if err != nil {
		return geometry.ArcInput{}, err
	}
	unitName, err := util.OptionalString(args, "unit", geometry.Degrees.String())
	if err != nil {
		return geometry.ArcInput{}, err
	}
	unit, err := geometry.ParseUnit(unitName)
	if err != nil {
		return geometry.ArcInput{}, err
	}
	return geometry.ArcInput{AngleValue: angle, Unit: unit, Radius: radius}, nil
}

func numberArg(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, &geometry.ValidationError{Kind: geometry.InvalidNumber, Field: key, Value: math.NaN()}
	}
	f, err := util.GetAsFloat(v)
	if err != nil {
		logger.Debug("Rejected non-numeric argument", key, err)
		return 0, &geometry.ValidationError{Kind: geometry.InvalidNumber, Field: key, Value: math.NaN()}
	}
	return f, nil
}

func metricsFinite(m geometry.ArcMetrics) bool {
	for _, v := range []float64{
		m.Radius, m.ArcLength, m.ChordLength, m.SectorArea,
		m.AngleDegTotal, m.AngleRadTotal, m.AngleDegNormalized, m.AngleRadNormalized,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ErrorResult turns a handler error into a tool result the client can show.
// Validation errors carry the message a user needs to correct the input.
func ErrorResult(err error) *protocol.ToolResult {
	var ve *geometry.ValidationError
	if errors.As(err, &ve) {
		return protocol.NewToolError(ve.Message())
	}
	return protocol.NewToolError(err.Error())
}
