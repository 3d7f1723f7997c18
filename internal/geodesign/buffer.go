package geodesign

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// circleSegments is the number of segments approximating a full circle
// in buffer caps and joins.
const circleSegments = 32

func circle(c geom.Point, r float64) geom.Polygon {
	ring := make([]geom.Point, circleSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / circleSegments
		ring[i] = geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return geom.Polygon{ring}
}

// segmentQuad is the rectangle of half-width r along the segment ab.
func segmentQuad(a, b geom.Point, r float64) (geom.Polygon, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil, false
	}
	nx, ny := -dy/l*r, dx/l*r
	return geom.Polygon{{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}}, true
}

func toPolygon(p geom.Polygonal) geom.Polygon {
	if p == nil {
		return nil
	}
	var out geom.Polygon
	for _, poly := range p.Polygons() {
		out = append(out, poly...)
	}
	return out
}

func unionAll(polys []geom.Polygon) geom.Polygon {
	if len(polys) == 0 {
		return nil
	}
	acc := geom.Polygonal(polys[0])
	for _, p := range polys[1:] {
		acc = acc.Union(p)
	}
	return toPolygon(acc)
}

// BufferLine is the round-join positive buffer of a polyline: the set of
// points within dist of it.
func BufferLine(line []geom.Point, dist float64) (geom.Polygon, error) {
	if len(line) == 0 {
		return nil, fmt.Errorf("geodesign: cannot buffer an empty line")
	}
	if dist <= 0 {
		return nil, fmt.Errorf("geodesign: buffer distance must be positive, got %g", dist)
	}
	parts := []geom.Polygon{circle(line[0], dist)}
	for i := 1; i < len(line); i++ {
		parts = append(parts, circle(line[i], dist))
		if quad, ok := segmentQuad(line[i-1], line[i], dist); ok {
			parts = append(parts, quad)
		}
	}
	return unionAll(parts), nil
}

// BufferPolygon dilates a polygon by dist (round joins).
func BufferPolygon(p geom.Polygon, dist float64) (geom.Polygon, error) {
	if dist == 0 {
		return p, nil
	}
	acc := geom.Polygonal(p)
	for _, ring := range p {
		closed := append(append([]geom.Point(nil), ring...), ring[0])
		rim, err := BufferLine(closed, dist)
		if err != nil {
			return nil, err
		}
		acc = acc.Union(rim)
	}
	return toPolygon(acc), nil
}

// Erode shrinks a polygon by dist: the polygon minus a buffer of its own
// boundary.
func Erode(p geom.Polygon, dist float64) (geom.Polygon, error) {
	if dist <= 0 {
		return nil, fmt.Errorf("geodesign: erosion distance must be positive, got %g", dist)
	}
	acc := geom.Polygonal(p)
	for _, ring := range p {
		closed := append(append([]geom.Point(nil), ring...), ring[0])
		rim, err := BufferLine(closed, dist)
		if err != nil {
			return nil, err
		}
		acc = acc.Difference(rim)
		if acc == nil {
			return nil, fmt.Errorf("geodesign: erosion by %g leaves nothing", dist)
		}
	}
	return toPolygon(acc), nil
}
