package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(prims []Primitive) []Kind {
	out := make([]Kind, len(prims))
	for i, p := range prims {
		out[i] = p.Kind()
	}
	return out
}

func TestLayoutSixtyDegrees(t *testing.T) {
	frame := DefaultFrame()
	prims := Layout(5, math.Pi/3, frame)

	require.Equal(t, []Kind{KindCircle, KindArc, KindLine, KindLine}, kinds(prims))

	ref := prims[0].(Circle)
	assert.Equal(t, RoleReference, ref.Role)
	assert.Equal(t, 400.0, ref.Center.X)
	assert.Equal(t, 240.0, ref.Center.Y)
	assert.InDelta(t, 100.0, ref.Radius, 1e-9)

	arc := prims[1].(Arc)
	assert.InDelta(t, -math.Pi/6, arc.StartAngle, 1e-12)
	assert.InDelta(t, math.Pi/6, arc.EndAngle, 1e-12)
	assert.False(t, arc.LargeArc)
	assert.True(t, arc.Sweep)
	assert.InDelta(t, 400+100*math.Cos(math.Pi/6), arc.Start.X, 1e-9)
	assert.InDelta(t, 240-50, arc.Start.Y, 1e-9)
	assert.InDelta(t, 240+50, arc.End.Y, 1e-9)

	first, second := prims[2].(Line), prims[3].(Line)
	assert.Equal(t, ref.Center, first.From)
	assert.Equal(t, arc.Start, first.To)
	assert.Equal(t, arc.End, second.To)
	assert.Equal(t, RoleGuide, second.Role)
}

func TestLayoutExactRevolution(t *testing.T) {
	prims := Layout(5, 2*math.Pi, DefaultFrame())

	require.Equal(t, []Kind{KindCircle, KindCircle, KindPoint}, kinds(prims))
	assert.Equal(t, RoleRevolution, prims[1].(Circle).Role)
	assert.Equal(t, CenterMarkerRadius, prims[2].(Point).Radius)
}

func TestLayoutSingleIndicatorForManyRevolutions(t *testing.T) {
	prims := Layout(1, 5*2*math.Pi+math.Pi/2, DefaultFrame())

	require.Equal(t, []Kind{KindCircle, KindCircle, KindArc, KindLine, KindLine}, kinds(prims))
	assert.InDelta(t, math.Pi/2, prims[2].(Arc).EndAngle-prims[2].(Arc).StartAngle, 1e-9)
}

func TestLayoutLargeArcFlag(t *testing.T) {
	prims := Layout(2, 1.5*math.Pi, DefaultFrame())
	arc := prims[1].(Arc)
	assert.True(t, arc.LargeArc)

	prims = Layout(2, math.Pi, DefaultFrame())
	assert.False(t, prims[1].(Arc).LargeArc, "exactly half a turn is not a large arc")
}

func TestScaleShrinksToFitAndNeverMagnifies(t *testing.T) {
	frame := CanvasFrame{Width: 440, Height: 440, Margin: 20, PixelsPerUnit: 20}
	require.Equal(t, 200.0, frame.MaxRadius())

	assert.InDelta(t, 0.1, Scale(100, frame), 1e-12)
	assert.InDelta(t, 200.0, RadiusPx(100, frame), 1e-9)

	assert.Equal(t, 1.0, Scale(2, frame))
	assert.Equal(t, 40.0, RadiusPx(2, frame))
}

func TestRadiusFloor(t *testing.T) {
	frame := DefaultFrame()
	assert.Equal(t, MinRadiusPx, RadiusPx(0.01, frame))
	assert.Equal(t, 1.0, Scale(0, frame))
	assert.Equal(t, MinRadiusPx, RadiusPx(0, frame))
}

func TestLayoutIsPure(t *testing.T) {
	frame := DefaultFrame()
	a := Layout(3, 4.2, frame)
	b := Layout(3, 4.2, frame)
	assert.Equal(t, a, b)
	assert.Equal(t, DefaultFrame(), frame)
}

func TestFrameValidate(t *testing.T) {
	assert.NoError(t, DefaultFrame().Validate())

	bad := []CanvasFrame{
		{Width: 0, Height: 100, Margin: 0, PixelsPerUnit: 1},
		{Width: 100, Height: math.NaN(), Margin: 0, PixelsPerUnit: 1},
		{Width: 100, Height: 100, Margin: -1, PixelsPerUnit: 1},
		{Width: 100, Height: 100, Margin: 0, PixelsPerUnit: 0},
		{Width: 100, Height: 100, Margin: 50, PixelsPerUnit: 1},
	}
	for _, f := range bad {
		assert.Error(t, f.Validate(), "%+v", f)
	}
}

func TestLayoutSnapsConvertedWholeTurns(t *testing.T) {
	for _, deg := range []float64{360, 720, 1080} {
		prims := Layout(1, deg*math.Pi/180, DefaultFrame())
		assert.Equal(t, []Kind{KindCircle, KindCircle, KindPoint}, kinds(prims), "%v°", deg)
	}
}

func TestRadiusPxWhenUnscaledSizeOverflows(t *testing.T) {
	frame := DefaultFrame()
	r := RadiusPx(1e308, frame)
	assert.False(t, math.IsNaN(r) || math.IsInf(r, 0))
	assert.LessOrEqual(t, r, frame.MaxRadius())
	assert.GreaterOrEqual(t, r, MinRadiusPx)

	frame.PixelsPerUnit = 1e308
	assert.Equal(t, frame.MaxRadius(), RadiusPx(5, frame))
}

func TestLayoutExtremeInputsHaveFiniteCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		angle  float64
		frame  CanvasFrame
	}{
		{"overflowing radius", 1e308, 1, DefaultFrame()},
		{"overflowing radius many turns", math.MaxFloat64, 1e300, DefaultFrame()},
		{"overflowing pixels per unit", 5, 2, CanvasFrame{Width: 800, Height: 480, Margin: 20, PixelsPerUnit: 1e308}},
		{"tiny radius on the largest canvas", 1e-300, 3, CanvasFrame{Width: MaxCanvasPx, Height: MaxCanvasPx, Margin: 0, PixelsPerUnit: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prims := Layout(tt.radius, tt.angle, tt.frame)
			_, err := json.Marshal(prims)
			require.NoError(t, err)
			ref := prims[0].(Circle)
			assert.GreaterOrEqual(t, ref.Radius, MinRadiusPx)
			assert.LessOrEqual(t, ref.Radius, math.Max(MinRadiusPx, tt.frame.MaxRadius()))
		})
	}
}

func TestFrameValidateCapsCanvasSize(t *testing.T) {
	frame := DefaultFrame()
	frame.Width = MaxCanvasPx
	assert.NoError(t, frame.Validate())

	frame.Width = MaxCanvasPx + 1
	assert.ErrorContains(t, frame.Validate(), "exceeds")

	frame = DefaultFrame()
	frame.Height = 1e10
	assert.Error(t, frame.Validate())

	_, err := Rasterize(CanvasFrame{Width: 1e10, Height: 1e10, Margin: 0, PixelsPerUnit: 1}, nil)
	assert.Error(t, err)
}

func TestLayoutKeepsArcJustShortOfATurn(t *testing.T) {
	prims := Layout(1, 2*math.Pi-5e-10, DefaultFrame())
	assert.Equal(t, []Kind{KindCircle, KindArc, KindLine, KindLine}, kinds(prims))
	assert.True(t, prims[1].(Arc).LargeArc)
}
