// Command proposal reloads a stored cable-route proposal or opens the
// interactive picker to draw one, then prints per-line statistics.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/ctessum/geom"

	"daslayout/internal/geodesign"
	"daslayout/internal/picker"
	"daslayout/internal/routes"
	"daslayout/internal/site"
)

func main() {
	var (
		sitePath   = flag.String("site", "", "site configuration yaml (built-in defaults when empty)")
		nodesPath  = flag.String("nodes", "", "survey node CSV (defaults to the site's node_file)")
		routesPath = flag.String("routes", "", "route GeoJSON to reload and save (in-memory only when empty)")
	)
	flag.Parse()

	s, err := loadSite(*sitePath)
	if err != nil {
		log.Fatalf("proposal: %v", err)
	}
	path := *nodesPath
	if path == "" {
		path = s.NodeFile
	}
	nodes, err := site.LoadNodes(path, s.MaxNodes)
	if err != nil {
		log.Fatalf("proposal: %v", err)
	}
	sp, err := geodesign.Build(s, nodes)
	if err != nil {
		log.Fatalf("proposal: %v", err)
	}

	var anchor *geom.Point
	if len(s.FixedPoints) > 0 {
		anchor = &geom.Point{X: s.FixedPoints[0][0], Y: s.FixedPoints[0][1]}
	}
	anchors := make([]geom.Point, len(s.FixedPoints))
	for i, p := range s.FixedPoints {
		anchors[i] = geom.Point{X: p[0], Y: p[1]}
	}
	scene, err := picker.NewScene(sp.DesignFull, sp.Obstacles, anchors)
	if err != nil {
		log.Fatalf("proposal: %v", err)
	}

	// The window library owns the main goroutine, so the workflow runs
	// beside it and exits the process when done.
	go func() {
		set, err := routes.LoadOrSelect(*routesPath, func() (routes.Set, error) {
			w := new(app.Window)
			w.Option(app.Title("Cable route proposal"))
			w.Option(app.Size(unit.Dp(1100), unit.Dp(800)))
			return picker.Run(w, scene, anchor)
		})
		if err != nil {
			log.Fatalf("proposal: %v", err)
		}

		for i, line := range set {
			log.Printf("proposal: line %d: %d points, %.1f m", i, len(line), line.Length(anchor))
		}
		log.Printf("proposal: %d lines, %.1f m total", len(set), set.TotalLength(anchor))
		os.Exit(0)
	}()
	app.Main()
}

func loadSite(path string) (*site.Site, error) {
	if path == "" {
		return site.Default(), nil
	}
	return site.Load(path)
}
