package picker

import (
	"image"
	"testing"

	"gioui.org/f32"
	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"

	"daslayout/internal/geodesign"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

func TestSceneObstacleAt(t *testing.T) {
	obstacles := []geodesign.Obstacle{{
		Name:   "crack",
		Line:   []geom.Point{{X: 40, Y: 50}, {X: 60, Y: 50}},
		Radius: 5,
	}}
	sc, err := NewScene(square(0, 0, 100, 100), obstacles, nil)
	require.NoError(t, err)
	require.Len(t, sc.Shapes, 1)

	name, hit := sc.ObstacleAt(geom.Point{X: 50, Y: 51})
	require.True(t, hit)
	require.Equal(t, "crack", name)

	_, hit = sc.ObstacleAt(geom.Point{X: 10, Y: 10})
	require.False(t, hit)
}

func TestSceneBoundsIncludesAnchors(t *testing.T) {
	sc, err := NewScene(square(0, 0, 100, 100), nil,
		[]geom.Point{{X: 150, Y: -20}})
	require.NoError(t, err)

	b := sc.Bounds()
	require.Equal(t, 150.0, b.Max.X)
	require.Equal(t, -20.0, b.Min.Y)
	require.Equal(t, 0.0, b.Min.X)
}

func TestDashSegments(t *testing.T) {
	segs := dashSegments(f32.Pt(0, 0), f32.Pt(100, 0), 8, 6)
	require.NotEmpty(t, segs)
	require.Equal(t, f32.Pt(0, 0), segs[0][0])
	require.Equal(t, f32.Pt(8, 0), segs[0][1])
	// second dash starts after the gap
	require.Equal(t, f32.Pt(14, 0), segs[1][0])
	// last dash never overshoots the endpoint
	last := segs[len(segs)-1]
	require.LessOrEqual(t, last[1].X, float32(100))
	for _, s := range segs {
		require.InDelta(t, 0, s[0].Y, 1e-6)
		require.InDelta(t, 0, s[1].Y, 1e-6)
	}

	require.Nil(t, dashSegments(f32.Pt(5, 5), f32.Pt(5, 5), 8, 6))
}

func TestViewportRoundTrip(t *testing.T) {
	var v viewport
	v.fit(&geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 200, Y: 100}},
		image.Pt(800, 600))

	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 200, Y: 100}, {X: 37.5, Y: 62.5}} {
		got := v.toWorld(v.toScreen(p))
		require.InDelta(t, p.X, got.X, 1e-3)
		require.InDelta(t, p.Y, got.Y, 1e-3)
	}

	// North is up: a larger Y lands higher on screen.
	lo := v.toScreen(geom.Point{X: 50, Y: 10})
	hi := v.toScreen(geom.Point{X: 50, Y: 90})
	require.Less(t, hi.Y, lo.Y)
}
