package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/geometry"
	"github.com/richard-senior/arcmcp/pkg/render"
	"github.com/richard-senior/arcmcp/pkg/tools"
	"github.com/richard-senior/arcmcp/pkg/util"
)

// MCPRequest represents a query sent to the CLI
type MCPRequest struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId"`
}

// MCPResponse represents a JSON answer to a query
type MCPResponse struct {
	RequestID   string         `json:"requestId,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	RequestID string `json:"requestId,omitempty"`
	Error     struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Query verbs
const (
	VerbArc    = "arc"
	VerbLayout = "layout"
	VerbSVG    = "svg"
	VerbPNG    = "png"
)

// Query is a parsed CLI query: <verb> <angle> <deg|rad> <radius> [WxH]
type Query struct {
	Verb  string
	Input geometry.ArcInput
	Frame render.CanvasFrame
}

var verbs = []string{VerbArc, VerbLayout, VerbSVG, VerbPNG}

var suggestions = []string{
	"Measure an arc with 'arc 60 deg 5'",
	"List drawing primitives with 'layout 450 deg 2'",
	"Draw an SVG with 'svg 3.14159 rad 1 640x480'",
	"Draw a PNG with 'png 720 deg 3'",
}

// createErrorResponse creates an error response
func createErrorResponse(code, message, requestID string) ([]byte, error) {
	var response ErrorResponse
	response.RequestID = requestID
	response.Error.Code = code
	response.Error.Message = message
	return json.MarshalIndent(response, "", "  ")
}

// ProcessRequest processes a JSON encoded MCPRequest. svg and png queries
// return the image itself; everything else returns JSON.
func ProcessRequest(input []byte) ([]byte, error) {
	var request MCPRequest
	if err := json.Unmarshal(input, &request); err != nil {
		logger.Error("Failed to parse input JSON", err)
		return createErrorResponse("invalid_request", fmt.Sprintf("Invalid JSON: %v", err), "")
	}
	return ProcessQuery(request.Query, request.RequestID)
}

// ProcessQuery runs a single query
func ProcessQuery(query, requestID string) ([]byte, error) {
	logger.Info("Processing request", query)

	fields := strings.Fields(query)
	if len(fields) == 0 || !isVerb(fields[0]) {
		hints := suggestions
		if len(fields) > 0 {
			if verb, ok := util.ClosestMatch(fields[0], verbs, 2); ok {
				hints = append([]string{fmt.Sprintf("Did you mean '%s'?", verb)}, suggestions...)
			}
		}
		return marshalResponse(MCPResponse{
			RequestID:   requestID,
			Suggestions: hints,
			Metadata:    map[string]any{"version": "1.0.0"},
		}, requestID)
	}

	q, err := ParseQuery(query, config.Current().Canvas)
	if err != nil {
		var ve *geometry.ValidationError
		if errors.As(err, &ve) {
			return createErrorResponse("invalid_input", ve.Message(), requestID)
		}
		return createErrorResponse("invalid_query", err.Error(), requestID)
	}

	if q.Verb == VerbArc {
		result, err := tools.Calculate(q.Input)
		if err != nil {
			return inputErrorResponse(err, requestID)
		}
		return marshalResponse(MCPResponse{
			RequestID: requestID,
			Context: map[string]any{
				"input":    result.Input,
				"metrics":  result.Metrics,
				"display":  result.Display,
				"caption":  result.Caption,
				"markdown": result.Markdown,
			},
		}, requestID)
	}

	m, err := q.Input.Compute()
	if err != nil {
		return inputErrorResponse(err, requestID)
	}
	prims := render.Layout(m.Radius, m.AngleRadTotal, q.Frame)

	switch q.Verb {
	case VerbLayout:
		return marshalResponse(MCPResponse{
			RequestID: requestID,
			Context: map[string]any{
				"frame":      q.Frame,
				"primitives": prims,
				"caption":    m.Caption(),
			},
		}, requestID)
	case VerbSVG:
		doc := render.NewDocument(q.Frame, prims)
		if err := doc.AddCaption(m.Caption()); err != nil {
			return nil, err
		}
		svg, err := doc.SVG()
		if err != nil {
			return nil, err
		}
		return []byte(svg), nil
	default:
		var buf bytes.Buffer
		if err := render.WritePNG(&buf, q.Frame, prims); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// inputErrorResponse reports a rejected arc input with its user-facing message
func inputErrorResponse(err error, requestID string) ([]byte, error) {
	var ve *geometry.ValidationError
	if errors.As(err, &ve) {
		return createErrorResponse("invalid_input", ve.Message(), requestID)
	}
	return createErrorResponse("internal_error", err.Error(), requestID)
}

// ParseQuery reads "<verb> <angle> <deg|rad> <radius> [WxH]". The unit may be
// left out, in which case degrees are assumed. frame supplies everything a
// WxH suffix does not.
func ParseQuery(query string, frame render.CanvasFrame) (Query, error) {
	fields := strings.Fields(query)
	if len(fields) == 0 || !isVerb(fields[0]) {
		return Query{}, fmt.Errorf("query must start with arc, layout, svg or png")
	}
	q := Query{Verb: strings.ToLower(fields[0]), Frame: frame}
	args := fields[1:]

	if len(args) < 2 {
		return Query{}, fmt.Errorf("expected '%s <angle> <deg|rad> <radius> [WxH]'", q.Verb)
	}

	angle, err := parseNumber(args[0], "angle")
	if err != nil {
		return Query{}, err
	}
	args = args[1:]

	unit := geometry.Degrees
	if _, numErr := strconv.ParseFloat(args[0], 64); numErr != nil {
		if unit, err = geometry.ParseUnit(args[0]); err != nil {
			return Query{}, err
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return Query{}, fmt.Errorf("missing radius")
	}
	radius, err := parseNumber(args[0], "radius")
	if err != nil {
		return Query{}, err
	}
	args = args[1:]

	if len(args) > 0 {
		w, h, ok := strings.Cut(strings.ToLower(args[0]), "x")
		if !ok {
			return Query{}, fmt.Errorf("frame size must look like 640x480, got %q", args[0])
		}
		if q.Frame.Width, err = strconv.ParseFloat(w, 64); err != nil {
			return Query{}, fmt.Errorf("invalid frame width %q", w)
		}
		if q.Frame.Height, err = strconv.ParseFloat(h, 64); err != nil {
			return Query{}, fmt.Errorf("invalid frame height %q", h)
		}
		args = args[1:]
	}
	if len(args) > 0 {
		return Query{}, fmt.Errorf("unexpected trailing arguments: %s", strings.Join(args, " "))
	}
	if err := q.Frame.Validate(); err != nil {
		return Query{}, err
	}

	q.Input = geometry.ArcInput{AngleValue: angle, Unit: unit, Radius: radius}
	return q, nil
}

// IsImageQuery reports whether the query produces image bytes rather than JSON
func IsImageQuery(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	v := strings.ToLower(fields[0])
	return v == VerbSVG || v == VerbPNG
}

func isVerb(s string) bool {
	switch strings.ToLower(s) {
	case VerbArc, VerbLayout, VerbSVG, VerbPNG:
		return true
	}
	return false
}

func parseNumber(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &geometry.ValidationError{Kind: geometry.InvalidNumber, Field: field}
	}
	return v, nil
}

func marshalResponse(response MCPResponse, requestID string) ([]byte, error) {
	jsonResult, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal response to JSON", err)
		return createErrorResponse("internal_error", "Failed to create response", requestID)
	}
	return jsonResult, nil
}
