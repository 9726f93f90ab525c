package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
/// Text
///////////////////////////////////////////////////////////////////////////////

// Text is a label placed on the drawing, such as the revolution count
type Text struct {
	X, Y    float64
	Content string
	Style   string
}

// NewText creates a label with a default style when style is empty
func NewText(content, style string, x, y float64) (*Text, error) {
	if content == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if style == "" {
		style = "font-size: 14px; font-family: sans-serif; fill: #212529;"
	}
	return &Text{X: x, Y: y, Content: content, Style: style}, nil
}

///////////////////////////////////////////////////////////////////////////////
/// SVG
///////////////////////////////////////////////////////////////////////////////

const svgHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s"
	version="1.1"
	xmlns="http://www.w3.org/2000/svg">
`
const svgFooter = `</svg>
`

// Document is a frame plus everything drawn in it
type Document struct {
	Frame      CanvasFrame
	Primitives []Primitive
	Text       []*Text
}

// NewDocument wraps primitives produced by Layout
func NewDocument(frame CanvasFrame, prims []Primitive) *Document {
	return &Document{Frame: frame, Primitives: prims}
}

// AddText places a label on the drawing
func (d *Document) AddText(content, style string, x, y float64) error {
	t, err := NewText(content, style, x, y)
	if err != nil {
		return err
	}
	d.Text = append(d.Text, t)
	return nil
}

// AddCaption puts content centred along the bottom margin
func (d *Document) AddCaption(content string) error {
	if content == "" {
		return nil
	}
	return d.AddText(content, "font-size: 14px; font-family: sans-serif; fill: #212529; text-anchor: middle;",
		d.Frame.Width/2, d.Frame.Height-d.Frame.Margin/2)
}

// WriteSVG writes the document as a standalone SVG file body
func (d *Document) WriteSVG(w io.Writer) error {
	f := d.Frame
	if _, err := fmt.Fprintf(w, svgHeader,
		formatCoord(f.Width), formatCoord(f.Height), formatCoord(f.Width), formatCoord(f.Height)); err != nil {
		return err
	}
	for _, p := range d.Primitives {
		el, err := svgElement(p)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\t"+el+"\n"); err != nil {
			return err
		}
	}
	for _, t := range d.Text {
		var content bytes.Buffer
		if err := xml.EscapeText(&content, []byte(t.Content)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\t<text x=\"%s\" y=\"%s\" style=\"%s\">%s</text>\n",
			formatCoord(t.X), formatCoord(t.Y), t.Style, content.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, svgFooter)
	return err
}

// SVG returns the document as a string
func (d *Document) SVG() (string, error) {
	var sb strings.Builder
	if err := d.WriteSVG(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteSVGFile writes the document to filePath
func (d *Document) WriteSVGFile(filePath string) error {
	svg, err := d.SVG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write SVG file %s: %w", filePath, err)
	}
	return nil
}

// SVG renders primitives in frame as a standalone SVG document
func SVG(frame CanvasFrame, prims []Primitive) (string, error) {
	return NewDocument(frame, prims).SVG()
}

func svgElement(p Primitive) (string, error) {
	switch v := p.(type) {
	case Circle:
		return fmt.Sprintf(`<circle class="%s" cx="%s" cy="%s" r="%s"%s/>`,
			v.Role, formatCoord(v.Center.X), formatCoord(v.Center.Y), formatCoord(v.Radius), styleAttrs(v.Style)), nil
	case Arc:
		return fmt.Sprintf(`<path class="%s" d="%s"%s/>`,
			v.Role, PathData(ArcPathCommands(v)), styleAttrs(v.Style)), nil
	case Line:
		return fmt.Sprintf(`<line class="%s" x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			v.Role, formatCoord(v.From.X), formatCoord(v.From.Y), formatCoord(v.To.X), formatCoord(v.To.Y), styleAttrs(v.Style)), nil
	case Point:
		return fmt.Sprintf(`<circle class="%s" cx="%s" cy="%s" r="%s"%s/>`,
			v.Role, formatCoord(v.Center.X), formatCoord(v.Center.Y), formatCoord(v.Radius), styleAttrs(v.Style)), nil
	default:
		return "", fmt.Errorf("unsupported primitive %T", p)
	}
}

func styleAttrs(s Style) string {
	var sb strings.Builder
	if s.Fill != "" {
		fmt.Fprintf(&sb, ` fill="%s"`, s.Fill)
	}
	if s.Stroke != "" {
		fmt.Fprintf(&sb, ` stroke="%s"`, s.Stroke)
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&sb, ` stroke-width="%s"`, formatCoord(s.StrokeWidth))
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		fmt.Fprintf(&sb, ` opacity="%s"`, formatCoord(s.Opacity))
	}
	if s.LineCap != "" {
		fmt.Fprintf(&sb, ` stroke-linecap="%s"`, s.LineCap)
	}
	return sb.String()
}
