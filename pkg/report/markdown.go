// Package report renders the results panel for an arc as HTML and as
// Markdown for clients that display text.
package report

import (
	"bytes"
	"fmt"
	"html/template"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/richard-senior/arcmcp/pkg/geometry"
)

var panel = template.Must(template.New("panel").Parse(`<h2>Arc measurements</h2>
<p>Angle <code>{{.Angle}} {{.Unit}}</code> on a circle of radius <code>{{.Radius}}</code></p>
<ul>
<li><strong>Arc length:</strong> {{.Display.ArcLength}}</li>
<li><strong>Chord length:</strong> {{.Display.ChordLength}}</li>
<li><strong>Sector area:</strong> {{.Display.SectorArea}}</li>
<li><strong>Angle (degrees):</strong> {{.Display.AngleDeg}}</li>
<li><strong>Angle (radians):</strong> {{.Display.AngleRad}}</li>
</ul>
{{if .Caption}}<p><em>{{.Caption}}</em></p>{{end}}`))

type panelData struct {
	Angle   string
	Unit    string
	Radius  string
	Display geometry.Display
	Caption string
}

// HTML renders the results panel. A zero ArcMetrics with an empty display
// renders the cleared panel.
func HTML(in geometry.ArcInput, m geometry.ArcMetrics, d geometry.Display) (string, error) {
	var buf bytes.Buffer
	err := panel.Execute(&buf, panelData{
		Angle:   geometry.FormatValue(in.AngleValue),
		Unit:    in.Unit.String(),
		Radius:  geometry.FormatValue(in.Radius),
		Display: d,
		Caption: m.Caption(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render results panel: %w", err)
	}
	return buf.String(), nil
}

// Markdown renders the results panel and converts it to Markdown
func Markdown(in geometry.ArcInput, m geometry.ArcMetrics, d geometry.Display) (string, error) {
	html, err := HTML(in, m, d)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert results panel to markdown: %w", err)
	}
	return md, nil
}
