// Package routes holds candidate cable routes: ordered polylines traced
// over the design space, persisted as GeoJSON.
package routes

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Line is one candidate cable segment, an ordered polyline in local
// easting/northing metres.
type Line []geom.Point

// Set is an ordered collection of candidate lines.
type Set []Line

// Length is the polyline length. When an anchor is given the leg from
// the anchor to the first point is included, matching how a cable is
// run out from its fixed end.
func (l Line) Length(anchor *geom.Point) float64 {
	if len(l) == 0 {
		return 0
	}
	total := 0.0
	if anchor != nil {
		total += math.Hypot(l[0].X-anchor.X, l[0].Y-anchor.Y)
	}
	for i := 1; i < len(l); i++ {
		total += math.Hypot(l[i].X-l[i-1].X, l[i].Y-l[i-1].Y)
	}
	return total
}

// TotalLength sums the line lengths, each with the anchor leg.
func (s Set) TotalLength(anchor *geom.Point) float64 {
	total := 0.0
	for _, l := range s {
		total += l.Length(anchor)
	}
	return total
}

// Save writes the set as a GeoJSON FeatureCollection, one LineString
// feature per line, creating the parent directory if needed.
func Save(path string, s Set) error {
	fc := geojson.NewFeatureCollection()
	for i, line := range s {
		ls := make(orb.LineString, len(line))
		for j, p := range line {
			ls[j] = orb.Point{p.X, p.Y}
		}
		f := geojson.NewFeature(ls)
		f.Properties["line"] = i
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create routes dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write routes: %w", err)
	}
	return nil
}

// LoadFile reads a route set saved by Save.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse routes %s: %w", path, err)
	}
	var s Set
	for _, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			return nil, fmt.Errorf("routes %s: feature %d is %T, want LineString",
				path, len(s), f.Geometry)
		}
		line := make(Line, len(ls))
		for j, p := range ls {
			line[j] = geom.Point{X: p[0], Y: p[1]}
		}
		s = append(s, line)
	}
	return s, nil
}

// LoadOrSelect returns the routes stored at path if the file exists,
// without running selectFn. Otherwise it runs selectFn and, when the
// result is non-empty, saves it to path. Load and save failures are
// logged and degrade gracefully: a bad stored file falls through to
// selection, and a failed save still returns the in-memory result.
// An empty path skips persistence entirely.
func LoadOrSelect(path string, selectFn func() (Set, error)) (Set, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			s, err := LoadFile(path)
			if err == nil {
				log.Printf("routes: loaded %d lines from %s", len(s), path)
				return s, nil
			}
			log.Printf("routes: failed to load %s: %v; proceeding to selection", path, err)
		}
	}

	s, err := selectFn()
	if err != nil {
		return nil, err
	}
	if path != "" && len(s) > 0 {
		if err := Save(path, s); err != nil {
			log.Printf("routes: failed to save %s: %v", path, err)
		} else {
			log.Printf("routes: saved %d lines to %s", len(s), path)
		}
	}
	return s, nil
}
