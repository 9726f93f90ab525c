package tools

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/protocol"
	"github.com/richard-senior/arcmcp/pkg/render"
	"github.com/richard-senior/arcmcp/pkg/util"
)

// Drawing formats accepted by arc_draw
const (
	FormatSVG        = "svg"
	FormatPNG        = "png"
	FormatPrimitives = "primitives"
)

// DrawResult is the structured content of an arc_draw call
type DrawResult struct {
	Format     string             `json:"format"`
	Frame      render.CanvasFrame `json:"frame"`
	Caption    string             `json:"caption,omitempty"`
	Path       string             `json:"path,omitempty"`
	Primitives []render.Primitive `json:"primitives"`
}

// ArcDrawTool returns the arc_draw tool definition
func ArcDrawTool() protocol.Tool {
	props := map[string]protocol.ToolProperty{
		"format": {
			Type: "string",
			Description: `The output to produce. One of:
				svg: a standalone SVG document (default)
				png: a PNG image, returned base64 encoded
				primitives: the list of circles, arcs, lines and points as JSON`,
			Enum:    []string{FormatSVG, FormatPNG, FormatPrimitives},
			Default: FormatSVG,
		},
		"width":           {Type: "number", Description: "Canvas width in pixels"},
		"height":          {Type: "number", Description: "Canvas height in pixels"},
		"margin":          {Type: "number", Description: "Space kept clear around the circle in pixels"},
		"pixels_per_unit": {Type: "number", Description: "Pixels per unit of radius before the drawing is shrunk to fit"},
		"destpath": {
			Type:        "string",
			Description: "Optional filepath to write the drawing to. Relative paths are placed in the configured output directory.",
		},
	}
	for k, v := range arcInputProperties {
		props[k] = v
	}
	return protocol.Tool{
		Name: "arc_draw",
		Description: `Draws a schematic of a circular arc: the reference circle, a highlighted circle when
the angle contains whole revolutions, and the leftover arc with guide lines from the centre.`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"angle", "radius"},
		},
	}
}

// HandleArcDraw handles the arc_draw tool invocation
func HandleArcDraw(params any) (any, error) {
	logger.Info("Handling arc_draw tool invocation")

	args, err := util.ArgumentMap(params)
	if err != nil {
		return nil, err
	}
	in, err := ParseArcInput(args)
	if err != nil {
		return nil, err
	}
	m, err := in.Compute()
	if err != nil {
		return nil, err
	}

	frame, err := frameFromArgs(args, config.Current().Canvas)
	if err != nil {
		return nil, err
	}
	format, err := util.OptionalString(args, "format", FormatSVG)
	if err != nil {
		return nil, err
	}
	format = strings.ToLower(format)
	destpath, err := util.OptionalString(args, "destpath", "")
	if err != nil {
		return nil, err
	}

	result := &DrawResult{
		Format:     format,
		Frame:      frame,
		Caption:    m.Caption(),
		Primitives: render.Layout(m.Radius, m.AngleRadTotal, frame),
	}

	var data []byte
	var content protocol.Content
	switch format {
	case FormatSVG:
		doc := render.NewDocument(frame, result.Primitives)
		if err := doc.AddCaption(result.Caption); err != nil {
			return nil, err
		}
		svg, err := doc.SVG()
		if err != nil {
			return nil, err
		}
		data = []byte(svg)
		content = protocol.NewTextContent(svg)
	case FormatPNG:
		var buf bytes.Buffer
		if err := render.WritePNG(&buf, frame, result.Primitives); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		content = protocol.NewImageContent(base64.StdEncoding.EncodeToString(data), "image/png")
	case FormatPrimitives:
		data, err = json.MarshalIndent(result.Primitives, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal primitives: %w", err)
		}
		content = protocol.NewTextContent(string(data))
	default:
		return nil, fmt.Errorf("unknown format %q, expected svg, png or primitives", format)
	}

	if destpath != "" {
		path := ResolveOutputPath(destpath, config.Current().OutputDir)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write drawing to %s: %w", path, err)
		}
		logger.Info("Wrote arc drawing to", path)
		result.Path = path
	}

	return &protocol.ToolResult{
		Content:           []protocol.Content{content},
		StructuredContent: result,
	}, nil
}

// ResolveOutputPath places relative paths inside dir
func ResolveOutputPath(path, dir string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func frameFromArgs(args map[string]any, base render.CanvasFrame) (render.CanvasFrame, error) {
	frame := base
	var err error
	if frame.Width, err = util.OptionalFloat(args, "width", base.Width); err != nil {
		return frame, err
	}
	if frame.Height, err = util.OptionalFloat(args, "height", base.Height); err != nil {
		return frame, err
	}
	if frame.Margin, err = util.OptionalFloat(args, "margin", base.Margin); err != nil {
		return frame, err
	}
	if frame.PixelsPerUnit, err = util.OptionalFloat(args, "pixels_per_unit", base.PixelsPerUnit); err != nil {
		return frame, err
	}
	if err := frame.Validate(); err != nil {
		return frame, err
	}
	return frame, nil
}
