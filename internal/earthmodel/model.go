// Package earthmodel provides a 1-D layered velocity model of the
// subsurface and computes seismic arrivals (travel time, ray angles and
// transmission efficiency) between a source and a receiver depth over a
// range of epicentral distances.
//
// The model is a stack of constant-velocity layers. Two ray families are
// traced: the direct transmitted ray between the two depths, and head
// waves refracted along any faster interface below both depths. That is
// deliberately much simpler than a full whole-Earth tracer, but over the
// few-kilometre scale of a cable layout it covers the first arrivals the
// lookup tables need.
package earthmodel

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layer is one constant-property layer. Depths in metres, velocities in
// m/s, density in kg/m3.
type Layer struct {
	Ztop float64 `yaml:"ztop"`
	Zbot float64 `yaml:"zbot"`
	Vp   float64 `yaml:"vp"`
	Vs   float64 `yaml:"vs"`
	Rho  float64 `yaml:"rho"`
}

// Model is a 1-D velocity model: contiguous layers with increasing depth.
type Model struct {
	Layers []Layer
}

// New validates the layer stack. Layers must be contiguous, with
// positive thickness and P velocity. Missing densities are filled with
// Gardner's relation.
func New(layers []Layer) (*Model, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("earthmodel: empty layer stack")
	}
	for i := range layers {
		l := &layers[i]
		if l.Zbot <= l.Ztop {
			return nil, fmt.Errorf("earthmodel: layer %d has non-positive thickness", i)
		}
		if i > 0 && layers[i-1].Zbot != l.Ztop {
			return nil, fmt.Errorf("earthmodel: gap between layer %d and %d", i-1, i)
		}
		if l.Vp <= 0 {
			return nil, fmt.Errorf("earthmodel: layer %d has non-positive vp", i)
		}
		if l.Vs < 0 {
			return nil, fmt.Errorf("earthmodel: layer %d has negative vs", i)
		}
		if l.Rho == 0 {
			l.Rho = 1740 * math.Pow(l.Vp/1000, 0.25)
		}
	}
	return &Model{Layers: layers}, nil
}

// Continental is the embedded default profile: weathered cover over
// consolidated rock, crust and upper mantle.
func Continental() *Model {
	m, err := New([]Layer{
		{Ztop: 0, Zbot: 500, Vp: 1800, Vs: 900, Rho: 2000},
		{Ztop: 500, Zbot: 2000, Vp: 3200, Vs: 1700, Rho: 2300},
		{Ztop: 2000, Zbot: 10000, Vp: 5500, Vs: 3100, Rho: 2600},
		{Ztop: 10000, Zbot: 35000, Vp: 6500, Vs: 3700, Rho: 2800},
		{Ztop: 35000, Zbot: 120000, Vp: 8100, Vs: 4500, Rho: 3300},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// Oceanic is the embedded deep-water profile. The water column carries
// no shear waves.
func Oceanic() *Model {
	m, err := New([]Layer{
		{Ztop: 0, Zbot: 4000, Vp: 1500, Vs: 0, Rho: 1030},
		{Ztop: 4000, Zbot: 4500, Vp: 2000, Vs: 900, Rho: 1800},
		{Ztop: 4500, Zbot: 6500, Vp: 5000, Vs: 2700, Rho: 2500},
		{Ztop: 6500, Zbot: 12000, Vp: 6800, Vs: 3800, Rho: 2900},
		{Ztop: 12000, Zbot: 120000, Vp: 8100, Vs: 4500, Rho: 3300},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// oceanBoxes are crude (latMin, latMax, lonMin, lonMax) deep-ocean
// regions; good enough to pick a profile family for a deployment.
var oceanBoxes = [][4]float64{
	{-60, 60, -60, -20},  // central Atlantic
	{-60, 55, -180, -95}, // eastern Pacific
	{-60, 45, 150, 180},  // western Pacific
	{-55, 10, 55, 95},    // Indian
}

// ForLocation selects the embedded profile for a latitude/longitude.
func ForLocation(lat, lon float64) *Model {
	for _, b := range oceanBoxes {
		if lat >= b[0] && lat <= b[1] && lon >= b[2] && lon <= b[3] {
			return Oceanic()
		}
	}
	return Continental()
}

// Load reads a layer stack from a yaml file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var spec struct {
		Layers []Layer `yaml:"layers"`
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	m, err := New(spec.Layers)
	if err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	return m, nil
}

// Bottom is the depth of the base of the model.
func (m *Model) Bottom() float64 {
	return m.Layers[len(m.Layers)-1].Zbot
}

// layerAt returns the layer containing depth z (depths below the model
// clamp into the bottom layer).
func (m *Model) layerAt(z float64) *Layer {
	for i := range m.Layers {
		if z < m.Layers[i].Zbot {
			return &m.Layers[i]
		}
	}
	return &m.Layers[len(m.Layers)-1]
}

// ProfileStep is one (depth, vp, vs) pair of the step-wise profile,
// suitable for plotting.
type ProfileStep struct {
	Depth, Vp, Vs float64
}

// VelocityProfile returns the model as doubled step points, one pair per
// layer top and bottom.
func (m *Model) VelocityProfile() []ProfileStep {
	steps := make([]ProfileStep, 0, 2*len(m.Layers))
	for _, l := range m.Layers {
		steps = append(steps,
			ProfileStep{Depth: l.Ztop, Vp: l.Vp, Vs: l.Vs},
			ProfileStep{Depth: l.Zbot, Vp: l.Vp, Vs: l.Vs})
	}
	return steps
}

// Phase names a seismic arrival path. Only direct compressional and
// shear waves are distinguished here; case is accepted for compatibility
// with the usual naming of up- and downgoing legs.
type Phase string

// Wave is the wave type of a phase.
type Wave byte

const (
	WaveP Wave = 'P'
	WaveS Wave = 'S'
)

// Wave maps a phase name to its wave type.
func (p Phase) Wave() (Wave, error) {
	s := strings.ToUpper(string(p))
	switch {
	case s == "":
		return 0, fmt.Errorf("earthmodel: empty phase")
	case s[0] == 'P':
		return WaveP, nil
	case s[0] == 'S':
		return WaveS, nil
	}
	return 0, fmt.Errorf("earthmodel: unknown phase %q", p)
}

func (m *Model) velocity(l *Layer, w Wave) float64 {
	if w == WaveS {
		return l.Vs
	}
	return l.Vp
}
