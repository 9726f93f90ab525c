package tools

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/pkg/geometry"
	"github.com/richard-senior/arcmcp/pkg/protocol"
)

func toolResult(t *testing.T, v any) *protocol.ToolResult {
	t.Helper()
	res, ok := v.(*protocol.ToolResult)
	require.True(t, ok, "expected *protocol.ToolResult, got %T", v)
	return res
}

func TestArcCalculate(t *testing.T) {
	out, err := HandleArcCalculate(map[string]any{"angle": 60.0, "unit": "deg", "radius": "5"})
	require.NoError(t, err)
	res := toolResult(t, out)

	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, "5.23599")

	arc := res.StructuredContent.(*ArcResult)
	require.NotNil(t, arc.Metrics)
	assert.InDelta(t, 5.0, arc.Metrics.ChordLength, 1e-9)
	assert.Equal(t, "60°", arc.Display.AngleDeg)
	assert.Empty(t, arc.Caption)
}

func TestArcCalculateDefaultsToDegrees(t *testing.T) {
	out, err := HandleArcCalculate(json.RawMessage(`{"angle": 450, "radius": 2}`))
	require.NoError(t, err)
	arc := toolResult(t, out).StructuredContent.(*ArcResult)

	assert.Equal(t, geometry.Degrees, arc.Input.Unit)
	assert.Equal(t, "450° (90°)", arc.Display.AngleDeg)
	assert.Equal(t, "1 full revolution + 90°", arc.Caption)
}

func TestArcCalculateRejections(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		kind geometry.ErrorKind
		msg  string
	}{
		{"zero radius", map[string]any{"angle": 60.0, "radius": 0.0}, geometry.NonPositiveRadius, "radius"},
		{"negative angle", map[string]any{"angle": -1.0, "radius": 1.0}, geometry.NonPositiveAngle, "angle"},
		{"text angle", map[string]any{"angle": "sixty", "radius": 1.0}, geometry.InvalidNumber, "numeric"},
		{"missing radius", map[string]any{"angle": 1.0}, geometry.InvalidNumber, "numeric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleArcCalculate(tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.kind, geometry.KindOf(err))

			res := ErrorResult(err)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Content[0].Text, tt.msg)
		})
	}

	_, err := HandleArcCalculate(map[string]any{"angle": 1.0, "radius": 1.0, "unit": "grad"})
	assert.ErrorIs(t, err, geometry.ErrInvalidUnit)
}

func TestArcCalculateOverflowDropsMetrics(t *testing.T) {
	arc, err := Calculate(geometry.ArcInput{AngleValue: 1e300, Unit: geometry.Radians, Radius: 1e300})
	require.NoError(t, err)
	assert.Nil(t, arc.Metrics)
	assert.Equal(t, geometry.Undefined, arc.Display.SectorArea)

	_, err = json.Marshal(arc)
	assert.NoError(t, err)
}

func withOutputDir(t *testing.T) string {
	t.Helper()
	orig := config.Current()
	t.Cleanup(func() { _ = config.Update(orig) })

	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	require.NoError(t, config.Update(cfg))
	return cfg.OutputDir
}

func TestArcDrawSVG(t *testing.T) {
	out, err := HandleArcDraw(map[string]any{"angle": 2 * 3.141592653589793, "unit": "rad", "radius": 5.0})
	require.NoError(t, err)
	res := toolResult(t, out)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Content[0].Text))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("circle").Length())
	assert.Equal(t, 0, doc.Find("path").Length())
	assert.Equal(t, "1 full revolution", doc.Find("text").Text())
}

func TestArcDrawPNGToFile(t *testing.T) {
	dir := withOutputDir(t)
	out, err := HandleArcDraw(map[string]any{
		"angle": 60.0, "radius": 5.0, "format": "png",
		"width": 200.0, "height": "100", "destpath": "arc.png",
	})
	require.NoError(t, err)
	res := toolResult(t, out)

	assert.Equal(t, "image", res.Content[0].Type)
	assert.Equal(t, "image/png", res.Content[0].MimeType)
	data, err := base64.StdEncoding.DecodeString(res.Content[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	draw := res.StructuredContent.(*DrawResult)
	assert.Equal(t, filepath.Join(dir, "arc.png"), draw.Path)
	assert.Equal(t, 200.0, draw.Frame.Width)
	onDisk, err := os.ReadFile(draw.Path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestArcDrawPrimitives(t *testing.T) {
	out, err := HandleArcDraw(map[string]any{"angle": 90.0, "radius": 1.0, "format": "primitives"})
	require.NoError(t, err)
	res := toolResult(t, out)

	var prims []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &prims))
	require.Len(t, prims, 4)
	assert.Equal(t, "arc", prims[1]["kind"])
}

func TestArcDrawRejections(t *testing.T) {
	_, err := HandleArcDraw(map[string]any{"angle": 90.0, "radius": 1.0, "format": "gif"})
	assert.ErrorContains(t, err, "unknown format")

	_, err = HandleArcDraw(map[string]any{"angle": 90.0, "radius": 1.0, "width": -5.0})
	assert.ErrorContains(t, err, "width")

	_, err = HandleArcDraw(map[string]any{"angle": 90.0, "radius": -1.0})
	assert.Equal(t, geometry.NonPositiveRadius, geometry.KindOf(err))
}

func TestResolveOutputPath(t *testing.T) {
	assert.Equal(t, "/abs/a.svg", ResolveOutputPath("/abs/a.svg", "/tmp"))
	assert.Equal(t, filepath.Join("/tmp", "a.svg"), ResolveOutputPath("a.svg", "/tmp"))
	assert.Equal(t, "a.svg", ResolveOutputPath("a.svg", ""))
}

func TestArcDrawExtremeInputs(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{"huge png canvas", map[string]any{"angle": 60.0, "radius": 5.0, "format": "png", "width": 1e10, "height": 1e10}, "exceeds"},
		{"tall svg canvas", map[string]any{"angle": 60.0, "radius": 5.0, "height": "100000"}, "exceeds"},
		{"overflowing radius", map[string]any{"angle": 60.0, "radius": 1e308}, ""},
		{"overflowing radius png", map[string]any{"angle": 450.0, "radius": 1e308, "format": "png", "width": 200.0, "height": 100.0}, ""},
		{"overflowing pixels per unit", map[string]any{"angle": 60.0, "radius": 5.0, "pixels_per_unit": 1e308}, ""},
		{"largest allowed canvas", map[string]any{"angle": 60.0, "radius": 5.0, "width": 8192.0, "height": 480.0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := HandleArcDraw(tt.args)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.True(t, ErrorResult(err).IsError)
				return
			}
			require.NoError(t, err)
			draw := toolResult(t, out).StructuredContent.(*DrawResult)
			_, err = json.Marshal(draw.Primitives)
			require.NoError(t, err, "primitives must have finite coordinates")
		})
	}
}
