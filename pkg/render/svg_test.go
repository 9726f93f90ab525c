package render

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSVG(t *testing.T, svg string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
	require.NoError(t, err)
	return doc
}

func TestSVGForSixtyDegrees(t *testing.T) {
	svg, err := SVG(DefaultFrame(), Layout(5, math.Pi/3, DefaultFrame()))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))

	doc := parseSVG(t, svg)
	assert.Equal(t, 1, doc.Find("circle").Length())
	assert.Equal(t, 1, doc.Find("path").Length())
	assert.Equal(t, 2, doc.Find("line").Length())

	ref := doc.Find("circle.reference")
	r, _ := ref.Attr("r")
	assert.Equal(t, "100", r)
	stroke, _ := ref.Attr("stroke")
	assert.Equal(t, "#e9ecef", stroke)

	d, ok := doc.Find("path").Attr("d")
	require.True(t, ok)
	cmds, err := ParsePathData(d)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "M", cmds[0].Letter)
	assert.Equal(t, "A", cmds[1].Letter)
	assert.Equal(t, []float64{100, 100, 0, 0, 1}, cmds[1].Params[:5])
	assert.InDelta(t, 486.603, cmds[1].Params[5], 1e-3)
	assert.InDelta(t, 290, cmds[1].Params[6], 1e-3)

	lineCap, _ := doc.Find("path").Attr("stroke-linecap")
	assert.Equal(t, "round", lineCap)
}

func TestSVGForExactRevolution(t *testing.T) {
	svg, err := SVG(DefaultFrame(), Layout(5, 2*math.Pi, DefaultFrame()))
	require.NoError(t, err)

	doc := parseSVG(t, svg)
	assert.Equal(t, 3, doc.Find("circle").Length())
	assert.Equal(t, 0, doc.Find("path").Length())
	assert.Equal(t, 0, doc.Find("line").Length())

	opacity, _ := doc.Find("circle.revolution").Attr("opacity")
	assert.Equal(t, "0.25", opacity)
	fill, _ := doc.Find("circle.center").Attr("fill")
	assert.Equal(t, "#212529", fill)
}

func TestSVGCaptionIsEscaped(t *testing.T) {
	doc := NewDocument(DefaultFrame(), Layout(1, 7, DefaultFrame()))
	require.NoError(t, doc.AddCaption("1 full revolution + <0.71°>"))
	require.NoError(t, doc.AddCaption(""))
	assert.Error(t, doc.AddText("", "", 0, 0))

	svg, err := doc.SVG()
	require.NoError(t, err)
	assert.Contains(t, svg, "&lt;0.71°&gt;")
	assert.Equal(t, "1 full revolution + <0.71°>", parseSVG(t, svg).Find("text").Text())
}

func TestWriteSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arc.svg")
	require.NoError(t, NewDocument(DefaultFrame(), Layout(2, 1, DefaultFrame())).WriteSVGFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `viewBox="0 0 800 480"`)
}

func TestParsePathDataErrors(t *testing.T) {
	_, err := ParsePathData("")
	assert.Error(t, err)
	_, err = ParsePathData("M 1")
	assert.Error(t, err)
	_, err = ParsePathData("M 1 x")
	assert.Error(t, err)

	cmds, err := ParsePathData("M0,0 L10 -5.5 Z")
	require.NoError(t, err)
	assert.Equal(t, "M 0 0 L 10 -5.5 Z", PathData(cmds))
}

func TestPrimitivesMarshalWithKind(t *testing.T) {
	data, err := json.Marshal(Layout(5, 2*math.Pi, DefaultFrame()))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "circle", decoded[0]["kind"])
	assert.Equal(t, "revolution", decoded[1]["role"])
	assert.Equal(t, "point", decoded[2]["kind"])
}
