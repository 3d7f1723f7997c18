package geodesign

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"

	"daslayout/internal/site"
)

func TestConvexHullSquare(t *testing.T) {
	pts := []geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, {X: 3, Y: 7}, {X: 0, Y: 0}, // duplicates and interior points
	}
	hull, err := ConvexHull(pts)
	require.NoError(t, err)
	require.Len(t, hull, 1)
	require.Len(t, hull[0], 4)
	require.InDelta(t, 100, ringArea(hull[0]), 1e-9, "hull should be the CCW square")
}

func TestConvexHullErrors(t *testing.T) {
	_, err := ConvexHull([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.Error(t, err)
	_, err = ConvexHull([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}})
	require.Error(t, err, "collinear points have no hull")
}

func lShapedPoints() []geom.Point {
	var pts []geom.Point
	for x := 0.0; x <= 100; x += 10 {
		for y := 0.0; y <= 100; y += 10 {
			if x <= 20 || y <= 20 {
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

func TestConcaveHullRatioOneIsConvex(t *testing.T) {
	pts := lShapedPoints()
	concave, err := ConcaveHull(pts, 1)
	require.NoError(t, err)
	convex, err := ConvexHull(pts)
	require.NoError(t, err)
	require.InDelta(t, convex.Area(), concave.Area(), 1e-6)
}

func TestConcaveHullFollowsShape(t *testing.T) {
	pts := lShapedPoints()
	concave, err := ConcaveHull(pts, 0.1)
	require.NoError(t, err)
	convex, err := ConvexHull(pts)
	require.NoError(t, err)
	require.Less(t, concave.Area(), convex.Area(),
		"a tight concave hull should carve out the notch of the L")
	require.Greater(t, concave.Area(), 0.0)
	require.False(t, Contains(concave, geom.Point{X: 80, Y: 80}),
		"the notch should be outside the concave hull")
	require.True(t, Contains(concave, geom.Point{X: 50, Y: 10}))
}

func TestConcaveHullDeterministic(t *testing.T) {
	// Mirror-symmetric set, so the peel loop sees tied edge lengths and
	// the boundary trace has two equivalent directions to choose from.
	pts := []geom.Point{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 40, Y: 0}, {X: 60, Y: 0},
		{X: 0, Y: 40}, {X: 20, Y: 40}, {X: 40, Y: 40}, {X: 60, Y: 40},
		{X: 0, Y: 20}, {X: 60, Y: 20},
		{X: 30, Y: 14}, {X: 30, Y: 26},
	}
	first, err := ConcaveHull(pts, 0.1)
	require.NoError(t, err)
	firstBuffered, err := BufferPolygon(first, 5)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		h, err := ConcaveHull(pts, 0.1)
		require.NoError(t, err)
		require.Equal(t, first, h, "run %d returned a different ring", i)
	}
	for i := 0; i < 10; i++ {
		h, err := ConcaveHull(pts, 0.1)
		require.NoError(t, err)
		b, err := BufferPolygon(h, 5)
		require.NoError(t, err)
		require.Equal(t, firstBuffered, b)
	}
}

func TestContains(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	require.True(t, Contains(square, geom.Point{X: 5, Y: 5}))
	require.False(t, Contains(square, geom.Point{X: 15, Y: 5}))
	require.False(t, Contains(square, geom.Point{X: -1, Y: -1}))
}

func TestBufferLine(t *testing.T) {
	line := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}
	buf, err := BufferLine(line, 10)
	require.NoError(t, err)

	require.True(t, Contains(buf, geom.Point{X: 50, Y: 9}))
	require.True(t, Contains(buf, geom.Point{X: -8, Y: 0}), "round cap covers behind the endpoint")
	require.False(t, Contains(buf, geom.Point{X: 50, Y: 11}))
	require.False(t, Contains(buf, geom.Point{X: -11, Y: 0}))

	// area: 100 x 20 rectangle plus two half circles (slightly less for
	// the polygonal circle approximation)
	want := 100*20 + math.Pi*100
	require.InEpsilon(t, want, buf.Area(), 0.02)
}

func TestBufferLineErrors(t *testing.T) {
	_, err := BufferLine(nil, 10)
	require.Error(t, err)
	_, err = BufferLine([]geom.Point{{X: 0, Y: 0}}, -1)
	require.Error(t, err)
}

func TestBufferPolygon(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}}
	buf, err := BufferPolygon(square, 10)
	require.NoError(t, err)
	want := 120*120 - (4-math.Pi)*100 // rounded corners
	require.InEpsilon(t, want, buf.Area(), 0.02)
	require.True(t, Contains(buf, geom.Point{X: -5, Y: 50}))
}

func TestErode(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}}
	inner, err := Erode(square, 10)
	require.NoError(t, err)
	require.InEpsilon(t, 80*80, inner.Area(), 0.02)
	require.True(t, Contains(inner, geom.Point{X: 50, Y: 50}))
	require.False(t, Contains(inner, geom.Point{X: 5, Y: 50}))
}

func testSite() *site.Site {
	s := site.Default()
	s.ShoulderNodes = 22
	s.MaxNodes = 0
	s.HullRatio = 0.3
	s.FullBuffer = 5
	s.ROIShrink = 5
	s.Obstacles = []site.ObstacleSpec{
		{Name: "crack", Points: [][2]float64{{20, 10}, {80, 10}}, Radius: 5},
	}
	return s
}

func testNodes() []geom.Point {
	var pts []geom.Point
	for y := 0.0; y <= 100; y += 20 {
		for x := 0.0; x <= 100; x += 20 {
			pts = append(pts, geom.Point{X: x, Y: y})
		}
	}
	return pts
}

func TestBuild(t *testing.T) {
	sp, err := Build(testSite(), testNodes())
	require.NoError(t, err)

	require.Greater(t, sp.ShoulderArea.Area(), 0.0)
	require.Greater(t, sp.FullArea.Area(), sp.ShoulderArea.Area(),
		"the buffered full-node hull should exceed the shoulder hull")
	require.Less(t, sp.DesignShoulder.Area(), sp.ShoulderArea.Area(),
		"the obstacle should carve area out of the shoulder design space")
	require.Less(t, sp.ROI.Area(), sp.ShoulderArea.Area())
	require.False(t, Contains(sp.DesignShoulder, geom.Point{X: 50, Y: 10}),
		"points on the crack are unusable")
}

func TestBuildDeterministic(t *testing.T) {
	s, nodes := testSite(), testNodes()
	a, err := Build(s, nodes)
	require.NoError(t, err)
	b, err := Build(s, nodes)
	require.NoError(t, err)

	require.Equal(t, a.ShoulderArea, b.ShoulderArea)
	require.Equal(t, a.FullArea, b.FullArea)
	require.Equal(t, a.DesignShoulder, b.DesignShoulder)
	require.Equal(t, a.DesignFull, b.DesignFull)
	require.Equal(t, a.ROI, b.ROI)
}

func TestBuildNoObstacles(t *testing.T) {
	s := testSite()
	s.Obstacles = []site.ObstacleSpec{}
	sp, err := Build(s, testNodes())
	require.NoError(t, err)
	require.Equal(t, sp.ShoulderArea, sp.DesignShoulder)
	require.Equal(t, sp.FullArea, sp.DesignFull)
}

func TestBuildTooFewNodes(t *testing.T) {
	_, err := Build(testSite(), []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.Error(t, err)
}
