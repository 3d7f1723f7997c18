package earthmodel

import (
	"fmt"
	"math"
)

// Arrival is one computed ray arrival. Angles are in degrees: Incidence
// is measured from the vertical at the receiver, Takeoff from the
// downward vertical at the source (upgoing legs > 90). Efficiency is the
// product of the normal-incidence energy transmission coefficients of
// the interfaces the ray crosses, in (0, 1].
type Arrival struct {
	Phase      Phase
	Distance   float64 // m
	Time       float64 // s
	Incidence  float64 // deg
	Takeoff    float64 // deg
	Efficiency float64
}

// slab is a homogeneous section of the ray path.
type slab struct {
	h, v, rho float64
}

// slabs cuts the model between depths z0 < z1 for the given wave type,
// ordered shallow to deep.
func (m *Model) slabs(z0, z1 float64, w Wave) []slab {
	var out []slab
	for i := range m.Layers {
		l := &m.Layers[i]
		top := math.Max(l.Ztop, z0)
		bot := math.Min(l.Zbot, z1)
		if bot > top {
			out = append(out, slab{h: bot - top, v: m.velocity(l, w), rho: l.Rho})
		}
	}
	// depths below the model continue in the bottom layer
	if z1 > m.Bottom() {
		l := &m.Layers[len(m.Layers)-1]
		top := math.Max(m.Bottom(), z0)
		out = append(out, slab{h: z1 - top, v: m.velocity(l, w), rho: l.Rho})
	}
	return out
}

// Arrivals traces the requested phases from a source at depth zSource to
// a receiver at depth zReceiver for every distance in distances.
// Distances with no reachable ray simply produce no arrival.
func (m *Model) Arrivals(distances []float64, phases []Phase, zSource, zReceiver float64) ([]Arrival, error) {
	if zSource < 0 || zReceiver < 0 {
		return nil, fmt.Errorf("earthmodel: negative depth (source %g, receiver %g)", zSource, zReceiver)
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("earthmodel: no phases requested")
	}

	// A phase group like [p P] names up- and downgoing legs of the same
	// wave type; in a two-point layered trace they are one geometry, so
	// distinct wave types are traced once under the first name given.
	type wavePhase struct {
		name Phase
		w    Wave
	}
	var waves []wavePhase
	for _, ph := range phases {
		w, err := ph.Wave()
		if err != nil {
			return nil, err
		}
		seen := false
		for _, wp := range waves {
			if wp.w == w {
				seen = true
				break
			}
		}
		if !seen {
			waves = append(waves, wavePhase{name: ph, w: w})
		}
	}

	var out []Arrival
	for _, d := range distances {
		if d < 0 {
			return nil, fmt.Errorf("earthmodel: negative distance %g", d)
		}
		for _, wp := range waves {
			if a, ok := m.direct(d, wp.w, zSource, zReceiver); ok {
				a.Phase = wp.name
				out = append(out, a)
			}
			for _, a := range m.headWaves(d, wp.w, zSource, zReceiver) {
				a.Phase = wp.name
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func asinDeg(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Asin(x) * 180 / math.Pi
}

// transmission is the normal-incidence energy transmission coefficient
// between two slabs.
func transmission(a, b slab) float64 {
	z1 := a.rho * a.v
	z2 := b.rho * b.v
	if z1 <= 0 || z2 <= 0 {
		return 1
	}
	return 4 * z1 * z2 / ((z1 + z2) * (z1 + z2))
}

func pathEfficiency(slabs []slab) float64 {
	eff := 1.0
	for i := 1; i < len(slabs); i++ {
		eff *= transmission(slabs[i-1], slabs[i])
	}
	return eff
}

// direct traces the transmitted ray between the two depths.
func (m *Model) direct(d float64, w Wave, zSource, zReceiver float64) (Arrival, bool) {
	if zSource == zReceiver {
		// horizontal straight ray within one layer
		v := m.velocity(m.layerAt(zSource), w)
		if v <= 0 {
			return Arrival{}, false
		}
		return Arrival{
			Distance:   d,
			Time:       d / v,
			Incidence:  90,
			Takeoff:    90,
			Efficiency: 1,
		}, true
	}

	zTop := math.Min(zSource, zReceiver)
	zBot := math.Max(zSource, zReceiver)
	stack := m.slabs(zTop, zBot, w)
	vmax := 0.0
	for _, s := range stack {
		if s.v <= 0 {
			return Arrival{}, false // no such wave through this section
		}
		vmax = math.Max(vmax, s.v)
	}

	offset := func(p float64) float64 {
		x := 0.0
		for _, s := range stack {
			sin := p * s.v
			x += s.h * sin / math.Sqrt(1-sin*sin)
		}
		return x
	}

	var p float64
	if d > 0 {
		lo, hi := 0.0, (1-1e-12)/vmax
		if offset(hi) < d {
			return Arrival{}, false
		}
		for i := 0; i < 200; i++ {
			p = (lo + hi) / 2
			if offset(p) < d {
				lo = p
			} else {
				hi = p
			}
			if hi-lo < 1e-16 {
				break
			}
		}
		p = (lo + hi) / 2
	}

	t := 0.0
	for _, s := range stack {
		sin := p * s.v
		t += s.h / (s.v * math.Sqrt(1-sin*sin))
	}

	// receiver-side and source-side slab velocities
	vRec, vSrc := stack[0].v, stack[len(stack)-1].v
	upgoing := zSource > zReceiver
	if !upgoing {
		vRec, vSrc = vSrc, vRec
	}
	takeoff := asinDeg(p * vSrc)
	if upgoing {
		takeoff = 180 - takeoff
	}
	return Arrival{
		Distance:   d,
		Time:       t,
		Incidence:  asinDeg(p * vRec),
		Takeoff:    takeoff,
		Efficiency: pathEfficiency(stack),
	}, true
}

// headWaves traces refracted arrivals along every interface below both
// depths whose velocity exceeds the overburden.
func (m *Model) headWaves(d float64, w Wave, zSource, zReceiver float64) []Arrival {
	zDeep := math.Max(zSource, zReceiver)
	var out []Arrival
	for k := 1; k < len(m.Layers); k++ {
		refr := &m.Layers[k]
		if refr.Ztop < zDeep {
			continue
		}
		vRef := m.velocity(refr, w)
		if vRef <= 0 {
			continue
		}
		legS := m.slabs(zSource, refr.Ztop, w)
		legR := m.slabs(zReceiver, refr.Ztop, w)
		ok := true
		for _, s := range append(append([]slab{}, legS...), legR...) {
			if s.v <= 0 || s.v >= vRef {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		p := 1 / vRef
		x0, t0 := 0.0, 0.0
		for _, s := range append(append([]slab{}, legS...), legR...) {
			sin := p * s.v
			cos := math.Sqrt(1 - sin*sin)
			x0 += s.h * sin / cos
			t0 += s.h / (s.v * cos)
		}
		if d < x0-1e-9 {
			continue // before the critical offset
		}

		vSrc, vRec := vRef, vRef
		if len(legS) > 0 {
			vSrc = legS[0].v
		}
		if len(legR) > 0 {
			vRec = legR[0].v
		}
		refrSlab := slab{h: 0, v: vRef, rho: refr.Rho}
		eff := pathEfficiency(legS) * pathEfficiency(legR)
		if len(legS) > 0 {
			eff *= transmission(legS[len(legS)-1], refrSlab)
		}

		out = append(out, Arrival{
			Distance:   d,
			Time:       t0 + (d-x0)/vRef,
			Incidence:  asinDeg(p * vRec),
			Takeoff:    asinDeg(p * vSrc),
			Efficiency: eff,
		})
	}
	return out
}
