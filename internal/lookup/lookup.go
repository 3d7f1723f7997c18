// Package lookup builds phase lookup tables: arrival time, incidence and
// takeoff angle and transmission efficiency over a regular grid of
// (receiver depth, distance, source depth), computed with a velocity
// model tracer and cached to one NetCDF file per phase group and
// location. A cache file, once present, is trusted without
// recomputation.
package lookup

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/ctessum/sparse"

	"daslayout/internal/earthmodel"
)

// Tracer computes arrivals between a source and a receiver depth for a
// set of distances and phases. *earthmodel.Model implements it.
type Tracer interface {
	Arrivals(distances []float64, phases []earthmodel.Phase, zSource, zReceiver float64) ([]earthmodel.Arrival, error)
}

// Table is one phase group's lookup table. The four arrays have shape
// (len(ReceiverDepth), len(Distance), len(SourceDepth)); cells without
// an arrival are NaN. A Table is immutable once written.
type Table struct {
	ReceiverDepth []float64
	Distance      []float64
	SourceDepth   []float64

	ArrivalTime    *sparse.DenseArray // s
	IncidenceAngle *sparse.DenseArray // deg, in [0, 180)
	TakeoffAngle   *sparse.DenseArray // deg
	Efficiency     *sparse.DenseArray
}

func newTable(rec, dist, src []float64) *Table {
	t := &Table{
		ReceiverDepth:  rec,
		Distance:       dist,
		SourceDepth:    src,
		ArrivalTime:    sparse.ZerosDense(len(rec), len(dist), len(src)),
		IncidenceAngle: sparse.ZerosDense(len(rec), len(dist), len(src)),
		TakeoffAngle:   sparse.ZerosDense(len(rec), len(dist), len(src)),
		Efficiency:     sparse.ZerosDense(len(rec), len(dist), len(src)),
	}
	for _, arr := range []*sparse.DenseArray{t.ArrivalTime, t.IncidenceAngle, t.TakeoffAngle, t.Efficiency} {
		for i := range arr.Elements {
			arr.Elements[i] = math.NaN()
		}
	}
	return t
}

// Calculator produces lookup tables for one location and grid
// configuration.
type Calculator struct {
	Lat, Lon float64

	ReceiverDepthGrid []float64
	DistanceGrid      []float64
	SourceDepthGrid   []float64

	DataDir string

	// Tracer defaults to the velocity model for (Lat, Lon); tests swap
	// in synthetic tracers.
	Tracer Tracer
}

// NewCalculator builds the velocity model for the location and makes
// sure the cache directory exists.
func NewCalculator(lat, lon float64, receiverDepths, distances, sourceDepths []float64, dataDir string) (*Calculator, error) {
	if len(receiverDepths) == 0 || len(distances) == 0 || len(sourceDepths) == 0 {
		return nil, fmt.Errorf("lookup: empty grid axis")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("lookup: create data dir: %w", err)
	}
	return &Calculator{
		Lat:               lat,
		Lon:               lon,
		ReceiverDepthGrid: receiverDepths,
		DistanceGrid:      distances,
		SourceDepthGrid:   sourceDepths,
		DataDir:           dataDir,
		Tracer:            earthmodel.ForLocation(lat, lon),
	}, nil
}

// Filename is the cache file for a phase group at this location.
func (c *Calculator) Filename(group string) string {
	return filepath.Join(c.DataDir, fmt.Sprintf("%s_lookup_%.2f_%.2f.nc", group, c.Lat, c.Lon))
}

// Tables returns one table per phase group, loading each from its cache
// file when present and computing (and persisting) it otherwise. A
// loaded file is returned verbatim; its grid axes are not checked
// against the calculator's.
func (c *Calculator) Tables(groups map[string][]earthmodel.Phase) (map[string]*Table, error) {
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	results := make(map[string]*Table, len(groups))
	for _, group := range names {
		fname := c.Filename(group)
		if _, err := os.Stat(fname); err == nil {
			t, err := ReadTable(fname)
			if err != nil {
				return nil, fmt.Errorf("lookup: group %s: %w", group, err)
			}
			log.Printf("lookup: %s: loaded cache %s (%dx%dx%d)",
				group, fname, len(t.ReceiverDepth), len(t.Distance), len(t.SourceDepth))
			results[group] = t
			continue
		}

		log.Printf("lookup: %s: computing (%d receiver x %d source depths, %d distances)",
			group, len(c.ReceiverDepthGrid), len(c.SourceDepthGrid), len(c.DistanceGrid))
		t, err := c.compute(groups[group])
		if err != nil {
			return nil, fmt.Errorf("lookup: group %s: %w", group, err)
		}
		if err := writeFile(fname, t); err != nil {
			return nil, fmt.Errorf("lookup: group %s: %w", group, err)
		}
		log.Printf("lookup: %s: wrote %s", group, fname)
		results[group] = t
	}
	return results, nil
}

// compute sweeps the (receiver depth, source depth) grid, one tracer
// call per pair over the full distance grid. Per distance only the
// minimum-time arrival is kept (the first reported wins ties); pairs
// without any arrival leave their cells NaN.
func (c *Calculator) compute(phases []earthmodel.Phase) (*Table, error) {
	t := newTable(c.ReceiverDepthGrid, c.DistanceGrid, c.SourceDepthGrid)

	distIndex := make(map[float64]int, len(c.DistanceGrid))
	for i, d := range c.DistanceGrid {
		distIndex[d] = i
	}

	for ri, recDepth := range c.ReceiverDepthGrid {
		for si, srcDepth := range c.SourceDepthGrid {
			arrivals, err := c.Tracer.Arrivals(c.DistanceGrid, phases, srcDepth, recDepth)
			if err != nil {
				return nil, fmt.Errorf("receiver %g source %g: %w", recDepth, srcDepth, err)
			}

			best := make(map[int]earthmodel.Arrival)
			for _, a := range arrivals {
				di, ok := distIndex[a.Distance]
				if !ok {
					continue // tracer reported an off-grid distance
				}
				if prev, ok := best[di]; ok && prev.Time <= a.Time {
					continue
				}
				best[di] = a
			}

			for di, a := range best {
				inc := math.Mod(a.Incidence, 180)
				if inc < 0 {
					inc += 180
				}
				t.ArrivalTime.Set(math.Abs(a.Time), ri, di, si)
				t.IncidenceAngle.Set(inc, ri, di, si)
				t.TakeoffAngle.Set(a.Takeoff, ri, di, si)
				t.Efficiency.Set(a.Efficiency, ri, di, si)
			}
		}
	}
	return t, nil
}
