// Package site holds the deployment-specific configuration for the DAS
// layout design: survey area bounds, node file layout, the hand-tuned
// geometry constants, the obstacle inventory and the lookup grid axes.
//
// Default() is the reference site. Load fills any field left out of a
// yaml file from those defaults, so a site file only needs to state what
// differs.
package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Axis is a regular grid axis in metres.
type Axis struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Values expands the axis into an inclusive slice of grid values.
func (a Axis) Values() []float64 {
	if a.Step <= 0 || a.Max < a.Min {
		return nil
	}
	var vals []float64
	for i := 0; ; i++ {
		v := a.Min + float64(i)*a.Step
		if v > a.Max+a.Step*1e-9 {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

// ObstacleSpec is a hand-surveyed hazard: a polyline with a buffer radius.
type ObstacleSpec struct {
	Name   string       `yaml:"name"`
	Points [][2]float64 `yaml:"points"`
	Radius float64      `yaml:"radius"`
}

// Site is the full configuration for one deployment.
type Site struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`

	// Survey area bounds, metres (local easting/northing).
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`

	NodeFile      string `yaml:"node_file"`
	MaxNodes      int    `yaml:"max_nodes"`
	ShoulderNodes int    `yaml:"shoulder_nodes"`

	// Geometry constants for the design-space construction.
	HullRatio  float64 `yaml:"hull_ratio"`  // concave hull concavity, 1 = convex
	FullBuffer float64 `yaml:"full_buffer"` // m, dilation of the full area
	ROIShrink  float64 `yaml:"roi_shrink"`  // m, erosion of the shoulder area

	PriorDepth float64 `yaml:"prior_depth"` // m below surface for the source prior

	Obstacles   []ObstacleSpec `yaml:"obstacles"`
	FixedPoints [][2]float64   `yaml:"fixed_points"` // cable anchor(s), e.g. the interrogator hut

	ReceiverDepthGrid Axis `yaml:"receiver_depth_grid"`
	DistanceGrid      Axis `yaml:"distance_grid"`
	SourceDepthGrid   Axis `yaml:"source_depth_grid"`
}

// Default is the reference deployment with the surveyed constants.
func Default() *Site {
	return &Site{
		Name: "cdv",
		Lat:  46.43,
		Lon:  7.79,

		XMin: 100,
		XMax: 2100,
		YMin: 0,
		YMax: 2000,

		NodeFile:      "data/nodes_full.csv",
		MaxNodes:      835,
		ShoulderNodes: 378,

		HullRatio:  0.1,
		FullBuffer: 20,
		ROIShrink:  10,

		PriorDepth: 300,

		Obstacles: []ObstacleSpec{
			{Name: "big_crack", Points: [][2]float64{{1440, 1480}, {1480, 1400}}, Radius: 5},
			{Name: "rockfield_1", Points: [][2]float64{{1410, 1470}, {1440, 1390}}, Radius: 15},
			{Name: "rockfield_2", Points: [][2]float64{{1150, 1440}, {1240, 1470}, {1210, 1450}, {1150, 1440}}, Radius: 15},
			{Name: "big_rockfield", Points: [][2]float64{
				{1020, 1530}, {1050, 1520}, {1105, 1505}, {1090, 1480},
				{1060, 1450}, {1030, 1420}, {950, 1440}, {990, 1470}, {1020, 1530}}, Radius: 15},
			{Name: "rockfield_3", Points: [][2]float64{{770, 1530}, {850, 1500}}, Radius: 15},
			{Name: "rockfield_4", Points: [][2]float64{{680, 1440}, {710, 1420}}, Radius: 15},
		},
		FixedPoints: [][2]float64{{1550, 1400}},

		ReceiverDepthGrid: Axis{Min: 0, Max: 100, Step: 20},
		DistanceGrid:      Axis{Min: 0, Max: 2500, Step: 50},
		SourceDepthGrid:   Axis{Min: 0, Max: 2000, Step: 250},
	}
}

// Load reads a site file, filling absent fields from Default.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site file: %w", err)
	}
	s.applyDefaults()
	return &s, nil
}

// Save writes the site as yaml.
func (s *Site) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal site: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Site) applyDefaults() {
	d := Default()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Lat == 0 && s.Lon == 0 {
		s.Lat, s.Lon = d.Lat, d.Lon
	}
	if s.XMax == 0 && s.YMax == 0 {
		s.XMin, s.XMax = d.XMin, d.XMax
		s.YMin, s.YMax = d.YMin, d.YMax
	}
	if s.NodeFile == "" {
		s.NodeFile = d.NodeFile
	}
	if s.MaxNodes == 0 {
		s.MaxNodes = d.MaxNodes
	}
	if s.ShoulderNodes == 0 {
		s.ShoulderNodes = d.ShoulderNodes
	}
	if s.HullRatio == 0 {
		s.HullRatio = d.HullRatio
	}
	if s.FullBuffer == 0 {
		s.FullBuffer = d.FullBuffer
	}
	if s.ROIShrink == 0 {
		s.ROIShrink = d.ROIShrink
	}
	if s.PriorDepth == 0 {
		s.PriorDepth = d.PriorDepth
	}
	if s.Obstacles == nil {
		s.Obstacles = d.Obstacles
	}
	if s.FixedPoints == nil {
		s.FixedPoints = d.FixedPoints
	}
	if s.ReceiverDepthGrid == (Axis{}) {
		s.ReceiverDepthGrid = d.ReceiverDepthGrid
	}
	if s.DistanceGrid == (Axis{}) {
		s.DistanceGrid = d.DistanceGrid
	}
	if s.SourceDepthGrid == (Axis{}) {
		s.SourceDepthGrid = d.SourceDepthGrid
	}
}
