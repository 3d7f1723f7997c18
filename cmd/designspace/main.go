// Command designspace assembles the cable-routing geometry for a site,
// optionally evaluates the source prior over the terrain, and writes the
// figures and a GeoJSON export of the spaces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"daslayout/internal/earthmodel"
	"daslayout/internal/geodesign"
	"daslayout/internal/prior"
	"daslayout/internal/render"
	"daslayout/internal/site"
	"daslayout/internal/terrain"
)

func main() {
	var (
		sitePath  = flag.String("site", "", "site configuration yaml (built-in defaults when empty)")
		nodesPath = flag.String("nodes", "", "survey node CSV (defaults to the site's node_file)")
		topoPath  = flag.String("topo", "", "terrain NetCDF (synthetic flat terrain when empty)")
		priorPath = flag.String("prior", "", "source prior mixture JSON (skips the density map when empty)")
		outDir    = flag.String("out", "out", "output directory")
	)
	flag.Parse()

	if err := run(*sitePath, *nodesPath, *topoPath, *priorPath, *outDir); err != nil {
		log.Fatalf("designspace: %v", err)
	}
}

func run(sitePath, nodesPath, topoPath, priorPath, outDir string) error {
	s, err := loadSite(sitePath)
	if err != nil {
		return err
	}
	if nodesPath == "" {
		nodesPath = s.NodeFile
	}
	nodes, err := site.LoadNodes(nodesPath, s.MaxNodes)
	if err != nil {
		return err
	}
	log.Printf("designspace: %d nodes from %s", len(nodes), nodesPath)

	sp, err := geodesign.Build(s, nodes)
	if err != nil {
		return err
	}
	log.Printf("designspace: full area %.0f m2, shoulder %.0f m2, roi %.0f m2",
		sp.DesignFull.Area(), sp.DesignShoulder.Area(), sp.ROI.Area())

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	anchors := make([]geom.Point, len(s.FixedPoints))
	for i, p := range s.FixedPoints {
		anchors[i] = geom.Point{X: p[0], Y: p[1]}
	}

	if err := render.Map(filepath.Join(outDir, "design_space.png"), sp, nil, anchors); err != nil {
		return err
	}
	if err := render.VelocityProfile(filepath.Join(outDir, "velocity_model.png"),
		earthmodel.ForLocation(s.Lat, s.Lon)); err != nil {
		return err
	}
	if err := exportGeoJSON(filepath.Join(outDir, "design_space.geojson"), sp); err != nil {
		return err
	}

	if priorPath != "" {
		if err := densityMap(s, topoPath, priorPath, filepath.Join(outDir, "prior_density.png")); err != nil {
			return err
		}
	}
	return nil
}

func loadSite(path string) (*site.Site, error) {
	if path == "" {
		return site.Default(), nil
	}
	return site.Load(path)
}

func densityMap(s *site.Site, topoPath, priorPath, out string) error {
	var topo *terrain.Grid
	if topoPath != "" {
		var err error
		if topo, err = terrain.Load(topoPath); err != nil {
			return err
		}
	} else {
		topo = terrain.Synthetic(s.XMin, s.XMax, s.YMin, s.YMax, 100, 100,
			func(x, y float64) float64 { return 0 })
	}

	mix, err := prior.Load(priorPath)
	if err != nil {
		return err
	}
	field := &prior.Field{Mixture: mix, Topo: topo, Depth: s.PriorDepth}
	return render.DensityMap(out, topo.X, topo.Y, field.Density())
}

func orbPolygon(p geom.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		r := make(orb.Ring, 0, len(ring)+1)
		for _, pt := range ring {
			r = append(r, orb.Point{pt.X, pt.Y})
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			r = append(r, orb.Point{ring[0].X, ring[0].Y})
		}
		out[i] = r
	}
	return out
}

// exportGeoJSON writes the named design-space polygons and obstacle
// footprints as one feature collection.
func exportGeoJSON(path string, sp *geodesign.Spaces) error {
	fc := geojson.NewFeatureCollection()
	add := func(name string, p geom.Polygon) {
		if p == nil {
			return
		}
		f := geojson.NewFeature(orbPolygon(p))
		f.Properties["name"] = name
		fc.Append(f)
	}
	add("shoulder_area", sp.ShoulderArea)
	add("full_area", sp.FullArea)
	add("design_shoulder", sp.DesignShoulder)
	add("design_full", sp.DesignFull)
	add("roi", sp.ROI)

	shapes, err := sp.ObstacleShapes()
	if err != nil {
		return err
	}
	for i, shape := range shapes {
		f := geojson.NewFeature(orbPolygon(shape))
		f.Properties["name"] = sp.Obstacles[i].Name
		f.Properties["obstacle"] = true
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal design spaces: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
