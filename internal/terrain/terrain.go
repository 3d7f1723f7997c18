// Package terrain handles the gridded elevation data the layout design
// is draped over. Grids are stored as NetCDF files with coordinate
// variables x and y and an elevation variable, all in metres.
package terrain

import (
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Grid is elevation over a rectangular grid. Elev has shape
// (len(X), len(Y)). A Grid is immutable once loaded.
type Grid struct {
	X, Y []float64
	Elev *sparse.DenseArray
}

// Synthetic builds a grid from an analytic surface; used by tests and by
// tools generating placeholder terrain.
func Synthetic(xmin, xmax, ymin, ymax float64, nx, ny int, fn func(x, y float64) float64) *Grid {
	g := &Grid{
		X:    axis(xmin, xmax, nx),
		Y:    axis(ymin, ymax, ny),
		Elev: sparse.ZerosDense(nx, ny),
	}
	for i, x := range g.X {
		for j, y := range g.Y {
			g.Elev.Set(fn(x, y), i, j)
		}
	}
	return g
}

// axis spaces n values evenly over [lo, hi]; a single-point axis sits at
// lo.
func axis(lo, hi float64, n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo
		if n > 1 {
			vals[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
	}
	return vals
}

// Load reads a terrain grid from a NetCDF file.
func Load(path string) (*Grid, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terrain file: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("terrain %s: %w", path, err)
	}

	g := new(Grid)
	if g.X, err = readVector(f, "x"); err != nil {
		return nil, fmt.Errorf("terrain %s: %w", path, err)
	}
	if g.Y, err = readVector(f, "y"); err != nil {
		return nil, fmt.Errorf("terrain %s: %w", path, err)
	}

	dims := f.Header.Lengths("elevation")
	if len(dims) != 2 || dims[0] != len(g.X) || dims[1] != len(g.Y) {
		return nil, fmt.Errorf("terrain %s: elevation dims %v do not match axes (%d,%d)",
			path, dims, len(g.X), len(g.Y))
	}
	g.Elev = sparse.ZerosDense(dims...)
	r := f.Reader("elevation", nil, nil)
	tmp := make([]float32, len(g.Elev.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("terrain %s: read elevation: %w", path, err)
	}
	for i, v := range tmp {
		g.Elev.Elements[i] = float64(v)
	}
	return g, nil
}

func readVector(f *cdf.File, name string) ([]float64, error) {
	dims := f.Header.Lengths(name)
	if len(dims) != 1 {
		return nil, fmt.Errorf("variable %s is not a vector", name)
	}
	r := f.Reader(name, nil, nil)
	tmp := make([]float32, dims[0])
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	out := make([]float64, len(tmp))
	for i, v := range tmp {
		out[i] = float64(v)
	}
	return out, nil
}

// Write writes the grid as a NetCDF file.
func (g *Grid) Write(w *os.File) error {
	h := cdf.NewHeader([]string{"x", "y"}, []int{len(g.X), len(g.Y)})
	h.AddAttribute("", "comment", "DAS layout design terrain grid")
	h.AddVariable("x", []string{"x"}, []float32{0})
	h.AddAttribute("x", "units", "m")
	h.AddVariable("y", []string{"y"}, []float32{0})
	h.AddAttribute("y", "units", "m")
	h.AddVariable("elevation", []string{"x", "y"}, []float32{0})
	h.AddAttribute("elevation", "units", "m")
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("create terrain file: %w", err)
	}
	if err := writeVar(f, "x", g.X); err != nil {
		return err
	}
	if err := writeVar(f, "y", g.Y); err != nil {
		return err
	}
	if err := writeVar(f, "elevation", g.Elev.Elements); err != nil {
		return err
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("finalize terrain file: %w", err)
	}
	return nil
}

func writeVar(f *cdf.File, name string, data []float64) error {
	data32 := make([]float32, len(data))
	for i, v := range data {
		data32[i] = float32(v)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data32); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Crop returns the sub-grid covering the given bounds.
func (g *Grid) Crop(xmin, xmax, ymin, ymax float64) *Grid {
	i0, i1 := axisRange(g.X, xmin, xmax)
	j0, j1 := axisRange(g.Y, ymin, ymax)
	out := &Grid{
		X:    append([]float64(nil), g.X[i0:i1]...),
		Y:    append([]float64(nil), g.Y[j0:j1]...),
		Elev: sparse.ZerosDense(i1-i0, j1-j0),
	}
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			out.Elev.Set(g.Elev.Get(i, j), i-i0, j-j0)
		}
	}
	return out
}

func axisRange(ax []float64, lo, hi float64) (int, int) {
	i0 := sort.SearchFloat64s(ax, lo)
	i1 := sort.SearchFloat64s(ax, hi)
	if i1 < len(ax) && ax[i1] == hi {
		i1++
	}
	if i0 >= i1 { // degenerate request, keep one cell
		if i0 >= len(ax) {
			i0 = len(ax) - 1
		}
		i1 = i0 + 1
	}
	return i0, i1
}

// At returns the bilinearly interpolated elevation at (x, y). Points
// outside the grid clamp to the nearest edge.
func (g *Grid) At(x, y float64) float64 {
	i, fx := locate(g.X, x)
	j, fy := locate(g.Y, y)
	// single-point axes collapse the interpolation to the edge cell
	i1, j1 := i+1, j+1
	if i1 >= len(g.X) {
		i1 = i
	}
	if j1 >= len(g.Y) {
		j1 = j
	}
	z00 := g.Elev.Get(i, j)
	z10 := g.Elev.Get(i1, j)
	z01 := g.Elev.Get(i, j1)
	z11 := g.Elev.Get(i1, j1)
	return z00*(1-fx)*(1-fy) + z10*fx*(1-fy) + z01*(1-fx)*fy + z11*fx*fy
}

// locate returns the lower cell index and the fractional position within
// the cell, clamped to the axis.
func locate(ax []float64, v float64) (int, float64) {
	if len(ax) == 1 || v <= ax[0] {
		return 0, 0
	}
	if v >= ax[len(ax)-1] {
		return len(ax) - 2, 1
	}
	i := sort.SearchFloat64s(ax, v)
	if ax[i] > v {
		i--
	}
	if i > len(ax)-2 {
		i = len(ax) - 2
	}
	return i, (v - ax[i]) / (ax[i+1] - ax[i])
}
