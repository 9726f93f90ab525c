package resources

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/protocol"
)

const (
	GlossaryURI       = "arc://glossary"
	CanvasDefaultsURI = "arc://canvas/defaults"
)

const glossary = `# Arc glossary

- **Arc length**: distance along the curved path subtended by angle θ on a circle of radius r.
- **Chord length**: straight-line distance between the two endpoints of an arc.
- **Sector area**: area enclosed by two radii and the arc between them.
- **Residual angle**: the remainder of a total angle after removing whole multiples of a full revolution (2π radians).
- **Large-arc flag**: a rendering convention indicating whether to draw the longer (>180°) or shorter path between two points on a circle.
`

// GlossaryResource returns the glossary of arc terms
func GlossaryResource() protocol.Resource {
	return protocol.Resource{
		URI:         GlossaryURI,
		Name:        "arc_glossary",
		Description: "Definitions of the measurements and drawing terms used by the arc tools",
		MimeType:    "text/markdown",
	}
}

// CanvasDefaultsResource returns the drawing frame used when arc_draw is not given one
func CanvasDefaultsResource() protocol.Resource {
	return protocol.Resource{
		URI:         CanvasDefaultsURI,
		Name:        "arc_canvas_defaults",
		Description: "Default width, height, margin and pixels per unit for arc drawings",
		MimeType:    "application/json",
	}
}

// GetResources returns all available resources
func GetResources() []protocol.Resource {
	return []protocol.Resource{
		GlossaryResource(),
		CanvasDefaultsResource(),
	}
}

// ReadResource returns the contents of the resource at uri
func ReadResource(uri string) (*protocol.ReadResourceResponse, error) {
	logger.Info("Reading resource:", uri)

	var contents protocol.ResourceContents
	switch uri {
	case GlossaryURI:
		contents = protocol.ResourceContents{URI: uri, MimeType: "text/markdown", Text: glossary}
	case CanvasDefaultsURI:
		data, err := json.MarshalIndent(config.Current().Canvas, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal canvas defaults: %w", err)
		}
		contents = protocol.ResourceContents{URI: uri, MimeType: "application/json", Text: string(data)}
	default:
		return nil, fmt.Errorf("resource not found: %s", uri)
	}
	return &protocol.ReadResourceResponse{Contents: []protocol.ResourceContents{contents}}, nil
}
