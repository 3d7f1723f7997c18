package geodesign

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// triangle indexes three points, counter-clockwise.
type triangle struct {
	a, b, c int
}

func (t triangle) edges() [3][2]int {
	return [3][2]int{
		orderEdge(t.a, t.b),
		orderEdge(t.b, t.c),
		orderEdge(t.c, t.a),
	}
}

func orderEdge(i, j int) [2]int {
	if i < j {
		return [2]int{i, j}
	}
	return [2]int{j, i}
}

// inCircumcircle reports whether p lies strictly inside the circumcircle
// of the (CCW) triangle abc.
func inCircumcircle(a, b, c, p geom.Point) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// delaunay triangulates the points with the Bowyer-Watson algorithm.
func delaunay(pts []geom.Point) ([]triangle, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("geodesign: triangulation needs at least 3 points, got %d", len(pts))
	}

	// super-triangle comfortably enclosing all points
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		return nil, fmt.Errorf("geodesign: all points coincide")
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2

	work := append([]geom.Point(nil), pts...)
	n := len(pts)
	work = append(work,
		geom.Point{X: cx - 20*span, Y: cy - 10*span},
		geom.Point{X: cx + 20*span, Y: cy - 10*span},
		geom.Point{X: cx, Y: cy + 20*span})

	tris := []triangle{{n, n + 1, n + 2}}
	for pi := 0; pi < n; pi++ {
		p := work[pi]

		var bad []triangle
		var keep []triangle
		for _, t := range tris {
			if inCircumcircle(work[t.a], work[t.b], work[t.c], p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		// the cavity boundary: edges of bad triangles not shared by two
		edgeCount := make(map[[2]int]int)
		for _, t := range bad {
			for _, e := range t.edges() {
				edgeCount[e]++
			}
		}
		tris = keep
		for _, t := range bad {
			for _, e := range t.edges() {
				if edgeCount[e] != 1 {
					continue
				}
				nt := triangle{e[0], e[1], pi}
				if cross(work[nt.a], work[nt.b], work[nt.c]) < 0 {
					nt.a, nt.b = nt.b, nt.a
				}
				tris = append(tris, nt)
			}
		}
	}

	// drop triangles touching the super-triangle
	var out []triangle
	for _, t := range tris {
		if t.a < n && t.b < n && t.c < n {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("geodesign: triangulation is degenerate (collinear input)")
	}
	return out, nil
}
