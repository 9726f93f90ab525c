package processor

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/arcmcp/pkg/geometry"
	"github.com/richard-senior/arcmcp/pkg/render"
)

func TestParseQuery(t *testing.T) {
	frame := render.DefaultFrame()
	tests := []struct {
		query string
		want  Query
	}{
		{"arc 60 deg 5", Query{Verb: "arc", Input: geometry.ArcInput{AngleValue: 60, Unit: geometry.Degrees, Radius: 5}, Frame: frame}},
		{"ARC 60 5", Query{Verb: "arc", Input: geometry.ArcInput{AngleValue: 60, Unit: geometry.Degrees, Radius: 5}, Frame: frame}},
		{"svg 3.5 rad 2 640x400", Query{Verb: "svg", Input: geometry.ArcInput{AngleValue: 3.5, Unit: geometry.Radians, Radius: 2},
			Frame: render.CanvasFrame{Width: 640, Height: 400, Margin: 20, PixelsPerUnit: 20}}},
	}
	for _, tt := range tests {
		got, err := ParseQuery(tt.query, frame)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}

	for _, bad := range []string{"", "arc", "arc 60", "arc 60 deg", "arc 60 grad 5", "arc 60 deg 5 big", "arc 60 deg 5 10x10", "arc 60 deg 5 1x1 extra", "png 60 deg 5 100000x100000"} {
		_, err := ParseQuery(bad, frame)
		assert.Error(t, err, bad)
	}

	_, err := ParseQuery("arc sixty deg 5", frame)
	assert.Equal(t, geometry.InvalidNumber, geometry.KindOf(err))
}

func TestProcessArcQuery(t *testing.T) {
	out, err := ProcessRequest([]byte(`{"query":"arc 450 deg 2","requestId":"r1"}`))
	require.NoError(t, err)

	var resp MCPResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "r1", resp.RequestID)
	assert.Equal(t, "1 full revolution + 90°", resp.Context["caption"])
	display := resp.Context["display"].(map[string]any)
	assert.Equal(t, "450° (90°)", display["angleDeg"])
}

func TestProcessLayoutQuery(t *testing.T) {
	out, err := ProcessQuery("layout 360 deg 5", "")
	require.NoError(t, err)

	var resp MCPResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	prims := resp.Context["primitives"].([]any)
	require.Len(t, prims, 3)
	assert.Equal(t, "point", prims[2].(map[string]any)["kind"])
}

func TestProcessImageQueries(t *testing.T) {
	assert.True(t, IsImageQuery("svg 1 rad 1"))
	assert.False(t, IsImageQuery("arc 1 rad 1"))

	out, err := ProcessQuery("svg 60 deg 5", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
	assert.Contains(t, string(out), "<path")

	out, err = ProcessQuery("png 60 deg 5 200x100", "")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestProcessRejectedInput(t *testing.T) {
	out, err := ProcessQuery("arc 60 deg 0", "r2")
	require.NoError(t, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "invalid_input", resp.Error.Code)
	assert.Equal(t, "The radius must be greater than 0.", resp.Error.Message)
	assert.Equal(t, "r2", resp.RequestID)

	out, err = ProcessRequest([]byte(`not json`))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "invalid_request", resp.Error.Code)
}

func TestProcessUnknownQueryShowsSuggestions(t *testing.T) {
	out, err := ProcessQuery("help", "")
	require.NoError(t, err)

	var resp MCPResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.NotEmpty(t, resp.Suggestions)
}

func TestProcessMisspelledVerb(t *testing.T) {
	out, err := ProcessQuery("layuot 60 deg 5", "")
	require.NoError(t, err)

	var resp MCPResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "Did you mean 'layout'?", resp.Suggestions[0])
}

func TestProcessOversizedCanvasIsRejected(t *testing.T) {
	out, err := ProcessQuery("png 60 deg 5 1e10x1e10", "r3")
	require.NoError(t, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "invalid_query", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "exceeds")
}

func TestProcessDrawingRejectsInvalidInput(t *testing.T) {
	for _, query := range []string{"svg 60 deg -1", "png 0 rad 2", "layout 60 deg 0"} {
		out, err := ProcessQuery(query, "")
		require.NoError(t, err, query)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(out, &resp), query)
		assert.Equal(t, "invalid_input", resp.Error.Code, query)
	}
}
