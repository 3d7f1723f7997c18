package picker

import (
	"log"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"daslayout/internal/geodesign"
)

// Scene is everything the picker window draws: the design-space outline,
// the obstacle shapes, and the station anchors. Obstacle shapes are
// indexed so each click can be checked quickly.
type Scene struct {
	DesignSpace geom.Polygon
	Obstacles   []geodesign.Obstacle
	Shapes      []geom.Polygon
	Anchors     []geom.Point

	index *rtree.Rtree
}

type obstacleShape struct {
	geom.Polygon
	name string
}

// NewScene builds a scene and its obstacle index. The obstacle
// footprints are buffered once here and reused for drawing and
// hit-testing.
func NewScene(space geom.Polygon, obstacles []geodesign.Obstacle, anchors []geom.Point) (*Scene, error) {
	sc := &Scene{
		DesignSpace: space,
		Obstacles:   obstacles,
		Anchors:     anchors,
		index:       rtree.NewTree(25, 50),
	}
	for _, o := range obstacles {
		shape, err := o.Shape()
		if err != nil {
			return nil, err
		}
		sc.Shapes = append(sc.Shapes, shape)
		sc.index.Insert(obstacleShape{Polygon: shape, name: o.Name})
	}
	return sc, nil
}

// ObstacleAt reports the name of the obstacle covering p, if any.
func (sc *Scene) ObstacleAt(p geom.Point) (string, bool) {
	for _, s := range sc.index.SearchIntersect(p.Bounds()) {
		o := s.(obstacleShape)
		if geodesign.Contains(o.Polygon, p) {
			return o.name, true
		}
	}
	return "", false
}

// CheckPoint logs a warning when a clicked point lands on an obstacle.
// The point is still accepted; the operator decides whether to keep it.
func (sc *Scene) CheckPoint(p geom.Point) {
	if name, hit := sc.ObstacleAt(p); hit {
		log.Printf("picker: point (%.1f, %.1f) lies on obstacle %q", p.X, p.Y, name)
	}
}

// Bounds covers the design space plus every anchor.
func (sc *Scene) Bounds() *geom.Bounds {
	db := sc.DesignSpace.Bounds()
	b := &geom.Bounds{Min: db.Min, Max: db.Max}
	for _, a := range sc.Anchors {
		if a.X < b.Min.X {
			b.Min.X = a.X
		}
		if a.Y < b.Min.Y {
			b.Min.Y = a.Y
		}
		if a.X > b.Max.X {
			b.Max.X = a.X
		}
		if a.Y > b.Max.Y {
			b.Max.Y = a.Y
		}
	}
	return b
}
