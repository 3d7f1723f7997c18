// Package prior evaluates the pre-trained source-location prior: a
// weighted Gaussian mixture over 3-D points, queried at terrain surface
// points to produce a density field over the survey area. Training the
// mixture is out of scope; its parameters arrive as a JSON file.
package prior

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"daslayout/internal/terrain"
)

// Params is the serialized mixture: one weight, 3-vector mean and
// row-major 3x3 covariance per component.
type Params struct {
	Weights []float64   `json:"weights"`
	Means   [][]float64 `json:"means"`
	Covs    [][]float64 `json:"covs"`
}

// Mixture is a Gaussian mixture over 3-D points.
type Mixture struct {
	comps []*distmv.Normal
	logW  []float64
}

// NewMixture builds a mixture from parameters. Weights are normalized;
// covariances must be symmetric positive definite.
func NewMixture(p Params) (*Mixture, error) {
	n := len(p.Weights)
	if n == 0 || len(p.Means) != n || len(p.Covs) != n {
		return nil, fmt.Errorf("prior: inconsistent mixture: %d weights, %d means, %d covariances",
			len(p.Weights), len(p.Means), len(p.Covs))
	}
	wsum := floats.Sum(p.Weights)
	if wsum <= 0 {
		return nil, fmt.Errorf("prior: weights sum to %g", wsum)
	}

	m := &Mixture{
		comps: make([]*distmv.Normal, n),
		logW:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		if p.Weights[i] <= 0 {
			return nil, fmt.Errorf("prior: component %d has non-positive weight", i)
		}
		if len(p.Means[i]) != 3 || len(p.Covs[i]) != 9 {
			return nil, fmt.Errorf("prior: component %d: want 3-vector mean and 3x3 covariance", i)
		}
		sigma := mat.NewSymDense(3, p.Covs[i])
		comp, ok := distmv.NewNormal(p.Means[i], sigma, nil)
		if !ok {
			return nil, fmt.Errorf("prior: component %d covariance is not positive definite", i)
		}
		m.comps[i] = comp
		m.logW[i] = math.Log(p.Weights[i] / wsum)
	}
	return m, nil
}

// Load reads mixture parameters from a JSON file.
func Load(path string) (*Mixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prior file: %w", err)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prior file: %w", err)
	}
	m, err := NewMixture(p)
	if err != nil {
		return nil, fmt.Errorf("prior file %s: %w", path, err)
	}
	return m, nil
}

// LogProb is the mixture log density at a 3-D point.
func (m *Mixture) LogProb(x []float64) float64 {
	terms := make([]float64, len(m.comps))
	for i, c := range m.comps {
		terms[i] = m.logW[i] + c.LogProb(x)
	}
	return floats.LogSumExp(terms)
}

// Field binds a mixture to a terrain grid at a fixed depth below the
// surface.
type Field struct {
	Mixture *Mixture
	Topo    *terrain.Grid
	Depth   float64 // m below the surface
}

// Density evaluates exp(LogProb) at every terrain cell, at the cell's
// (x, y, elevation - depth). The result is aligned with the grid.
func (f *Field) Density() *sparse.DenseArray {
	out := sparse.ZerosDense(len(f.Topo.X), len(f.Topo.Y))
	pt := make([]float64, 3)
	for i, x := range f.Topo.X {
		for j, y := range f.Topo.Y {
			pt[0] = x
			pt[1] = y
			pt[2] = f.Topo.Elev.Get(i, j) - f.Depth
			out.Set(math.Exp(f.Mixture.LogProb(pt)), i, j)
		}
	}
	return out
}
