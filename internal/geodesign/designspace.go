package geodesign

import (
	"fmt"

	"github.com/ctessum/geom"

	"daslayout/internal/site"
)

// Obstacle is a physical hazard the cable must avoid: a surveyed
// polyline with a buffer radius.
type Obstacle struct {
	Name   string
	Line   []geom.Point
	Radius float64
}

// Shape is the buffered footprint of the obstacle.
func (o Obstacle) Shape() (geom.Polygon, error) {
	p, err := BufferLine(o.Line, o.Radius)
	if err != nil {
		return nil, fmt.Errorf("obstacle %s: %w", o.Name, err)
	}
	return p, nil
}

// Spaces are the derived cable-routing regions. All polygons are
// deterministic functions of the site constants and the node set.
type Spaces struct {
	// Raw areas before obstacle subtraction.
	ShoulderArea geom.Polygon // convex hull of the shoulder nodes
	FullArea     geom.Polygon // buffered concave hull of all nodes

	// Usable design spaces (areas minus obstacles).
	DesignShoulder geom.Polygon
	DesignFull     geom.Polygon

	// Region of interest: the shoulder area shrunk inward.
	ROI geom.Polygon

	Obstacles     []Obstacle
	ObstacleUnion geom.Polygon
}

// Build assembles the design spaces from a site and its survey nodes.
func Build(s *site.Site, nodes []geom.Point) (*Spaces, error) {
	if len(nodes) < 3 {
		return nil, fmt.Errorf("geodesign: need at least 3 nodes, got %d", len(nodes))
	}
	nShoulder := s.ShoulderNodes
	if nShoulder > len(nodes) {
		nShoulder = len(nodes)
	}

	sp := &Spaces{}
	var err error

	if sp.ShoulderArea, err = ConvexHull(nodes[:nShoulder]); err != nil {
		return nil, fmt.Errorf("shoulder area: %w", err)
	}

	concave, err := ConcaveHull(nodes, s.HullRatio)
	if err != nil {
		return nil, fmt.Errorf("full area: %w", err)
	}
	if sp.FullArea, err = BufferPolygon(concave, s.FullBuffer); err != nil {
		return nil, fmt.Errorf("full area: %w", err)
	}

	var shapes []geom.Polygon
	for _, spec := range s.Obstacles {
		o := Obstacle{Name: spec.Name, Radius: spec.Radius}
		for _, p := range spec.Points {
			o.Line = append(o.Line, geom.Point{X: p[0], Y: p[1]})
		}
		shape, err := o.Shape()
		if err != nil {
			return nil, err
		}
		sp.Obstacles = append(sp.Obstacles, o)
		shapes = append(shapes, shape)
	}
	sp.ObstacleUnion = unionAll(shapes)

	if sp.ObstacleUnion == nil {
		sp.DesignShoulder = sp.ShoulderArea
		sp.DesignFull = sp.FullArea
	} else {
		sp.DesignShoulder = toPolygon(sp.ShoulderArea.Difference(sp.ObstacleUnion))
		sp.DesignFull = toPolygon(sp.FullArea.Difference(sp.ObstacleUnion))
	}

	if sp.ROI, err = Erode(sp.ShoulderArea, s.ROIShrink); err != nil {
		return nil, fmt.Errorf("region of interest: %w", err)
	}
	return sp, nil
}

// ObstacleShapes returns the buffered footprint of every obstacle, in
// inventory order.
func (sp *Spaces) ObstacleShapes() ([]geom.Polygon, error) {
	shapes := make([]geom.Polygon, len(sp.Obstacles))
	for i, o := range sp.Obstacles {
		shape, err := o.Shape()
		if err != nil {
			return nil, err
		}
		shapes[i] = shape
	}
	return shapes, nil
}
