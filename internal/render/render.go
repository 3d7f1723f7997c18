// Package render writes the diagnostic figures: a site map of the design
// spaces and proposed routes, a velocity profile of the layered model,
// and a heat map of the prior density.
package render

import (
	"fmt"
	"image/color"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"daslayout/internal/earthmodel"
	"daslayout/internal/geodesign"
	"daslayout/internal/routes"
)

var routeColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

func ringXYs(ring []geom.Point) plotter.XYs {
	xys := make(plotter.XYs, 0, len(ring)+1)
	for _, p := range ring {
		xys = append(xys, plotter.XY{X: p.X, Y: p.Y})
	}
	if len(ring) > 0 {
		xys = append(xys, plotter.XY{X: ring[0].X, Y: ring[0].Y})
	}
	return xys
}

func addOutline(p *plot.Plot, poly geom.Polygon, c color.RGBA, width vg.Length) error {
	for _, ring := range poly {
		line, err := plotter.NewLine(ringXYs(ring))
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = width
		p.Add(line)
	}
	return nil
}

func addFilled(p *plot.Plot, poly geom.Polygon, c color.RGBA) error {
	for _, ring := range poly {
		xys := make(plotter.XYs, len(ring))
		for i, pt := range ring {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		pg, err := plotter.NewPolygon(xys)
		if err != nil {
			return err
		}
		pg.Color = c
		p.Add(pg)
	}
	return nil
}

// Map draws the design spaces, obstacle footprints, proposed routes and
// station anchors to a PNG.
func Map(path string, sp *geodesign.Spaces, set routes.Set, anchors []geom.Point) error {
	p := plot.New()
	p.Title.Text = "Design space"
	p.X.Label.Text = "Easting (m)"
	p.Y.Label.Text = "Northing (m)"

	if err := addOutline(p, sp.FullArea, color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}, 1); err != nil {
		return err
	}
	if err := addOutline(p, sp.DesignFull, color.RGBA{G: 0x80, A: 0xff}, 2); err != nil {
		return err
	}
	if err := addOutline(p, sp.ROI, color.RGBA{B: 0xc0, A: 0xff}, 1); err != nil {
		return err
	}

	shapes, err := sp.ObstacleShapes()
	if err != nil {
		return err
	}
	for _, shape := range shapes {
		if err := addFilled(p, shape, color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x80}); err != nil {
			return err
		}
	}

	for i, line := range set {
		xys := make(plotter.XYs, len(line))
		for j, pt := range line {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = routeColors[i%len(routeColors)]
		l.Width = 2
		p.Add(l)
	}

	if len(anchors) > 0 {
		xys := make(plotter.XYs, len(anchors))
		for i, a := range anchors {
			xys[i] = plotter.XY{X: a.X, Y: a.Y}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving map %s: %w", path, err)
	}
	return nil
}

// VelocityProfile draws vp and vs against depth, depth increasing
// downward.
func VelocityProfile(path string, m *earthmodel.Model) error {
	p := plot.New()
	p.Title.Text = "Velocity profile"
	p.X.Label.Text = "Velocity (m/s)"
	p.Y.Label.Text = "Depth (m)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	steps := m.VelocityProfile()
	vp := make(plotter.XYs, len(steps))
	vs := make(plotter.XYs, len(steps))
	for i, s := range steps {
		vp[i] = plotter.XY{X: s.Vp, Y: s.Depth}
		vs[i] = plotter.XY{X: s.Vs, Y: s.Depth}
	}

	vpLine, err := plotter.NewLine(vp)
	if err != nil {
		return err
	}
	vpLine.Color = color.RGBA{B: 0xc0, A: 0xff}
	vsLine, err := plotter.NewLine(vs)
	if err != nil {
		return err
	}
	vsLine.Color = color.RGBA{R: 0xc0, A: 0xff}
	p.Add(vpLine, vsLine)
	p.Legend.Add("vp", vpLine)
	p.Legend.Add("vs", vsLine)

	if err := p.Save(4*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving profile %s: %w", path, err)
	}
	return nil
}

// densityGrid adapts a (nx, ny) density array to the heat-map grid
// interface.
type densityGrid struct {
	x, y []float64
	data *sparse.DenseArray
}

func (g densityGrid) Dims() (int, int) { return len(g.x), len(g.y) }
func (g densityGrid) X(c int) float64  { return g.x[c] }
func (g densityGrid) Y(r int) float64  { return g.y[r] }
func (g densityGrid) Z(c, r int) float64 {
	return g.data.Get(c, r)
}

// DensityMap draws the prior density evaluated on the site grid.
func DensityMap(path string, x, y []float64, density *sparse.DenseArray) error {
	if len(density.Shape) != 2 || density.Shape[0] != len(x) || density.Shape[1] != len(y) {
		return fmt.Errorf("density shape %v does not match grid %dx%d",
			density.Shape, len(x), len(y))
	}
	p := plot.New()
	p.Title.Text = "Prior density"
	p.X.Label.Text = "Easting (m)"
	p.Y.Label.Text = "Northing (m)"

	hm := plotter.NewHeatMap(densityGrid{x: x, y: y, data: density}, palette.Heat(12, 1))
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving density map %s: %w", path, err)
	}
	return nil
}
