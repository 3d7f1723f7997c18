// Package geodesign derives the usable cable-routing regions from survey
// node coordinates and the obstacle inventory: convex and concave hulls,
// buffering, and obstacle subtraction on ctessum/geom polygons.
package geodesign

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
)

func cross(o, a, b geom.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ConvexHull computes the convex hull of the points as a CCW polygon
// (Andrew's monotone chain). At least three non-collinear points are
// required.
func ConvexHull(pts []geom.Point) (geom.Polygon, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("geodesign: convex hull needs at least 3 points, got %d", len(pts))
	}
	sorted := append([]geom.Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	// dedupe
	uniq := sorted[:1]
	for _, p := range sorted[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}

	var lower, upper []geom.Point
	for _, p := range uniq {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	ring := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(ring) < 3 {
		return nil, fmt.Errorf("geodesign: convex hull is degenerate (collinear input)")
	}
	return geom.Polygon{ring}, nil
}

func ringArea(ring []geom.Point) float64 {
	a := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return a / 2
}

func ccw(ring []geom.Point) []geom.Point {
	if ringArea(ring) < 0 {
		rev := make([]geom.Point, len(ring))
		for i, p := range ring {
			rev[len(ring)-1-i] = p
		}
		return rev
	}
	return ring
}

// Contains reports whether the point is inside the polygon (even-odd
// rule over all rings).
func Contains(poly geom.Polygon, pt geom.Point) bool {
	in := false
	for _, ring := range poly {
		n := len(ring)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			if (ring[i].Y > pt.Y) != (ring[j].Y > pt.Y) &&
				pt.X < (ring[j].X-ring[i].X)*(pt.Y-ring[i].Y)/(ring[j].Y-ring[i].Y)+ring[i].X {
				in = !in
			}
		}
	}
	return in
}

func dist(a, b geom.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
