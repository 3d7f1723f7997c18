package lookup

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

var tableVars = []struct {
	name  string
	units string
}{
	{"arrival_time", "s"},
	{"incidence_angle", "deg"},
	{"takeoff_angle", "deg"},
	{"efficiency", "1"},
}

// Write writes the table as a NetCDF file with coordinate variables and
// float32 data.
func (t *Table) Write(w *os.File) error {
	h := cdf.NewHeader(
		[]string{"receiver_depth", "distance", "source_depth"},
		[]int{len(t.ReceiverDepth), len(t.Distance), len(t.SourceDepth)})
	h.AddAttribute("", "comment", "DAS layout phase lookup table")

	for _, dim := range []string{"receiver_depth", "distance", "source_depth"} {
		h.AddVariable(dim, []string{dim}, []float32{0})
		h.AddAttribute(dim, "units", "m")
	}
	dims := []string{"receiver_depth", "distance", "source_depth"}
	for _, v := range tableVars {
		h.AddVariable(v.name, dims, []float32{0})
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("create lookup file: %w", err)
	}
	coords := map[string][]float64{
		"receiver_depth": t.ReceiverDepth,
		"distance":       t.Distance,
		"source_depth":   t.SourceDepth,
	}
	for name, data := range coords {
		if err := writeVar(f, name, data); err != nil {
			return err
		}
	}
	for i, arr := range t.arrays() {
		if err := writeVar(f, tableVars[i].name, arr.Elements); err != nil {
			return err
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("finalize lookup file: %w", err)
	}
	return nil
}

func (t *Table) arrays() []*sparse.DenseArray {
	return []*sparse.DenseArray{t.ArrivalTime, t.IncidenceAngle, t.TakeoffAngle, t.Efficiency}
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

func writeFile(path string, t *Table) error {
	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer ff.Close()
	if err := t.Write(ff); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTable loads a lookup table from a NetCDF file, verbatim.
func ReadTable(path string) (*Table, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}

	t := new(Table)
	if t.ReceiverDepth, err = readVector(f, "receiver_depth"); err != nil {
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}
	if t.Distance, err = readVector(f, "distance"); err != nil {
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}
	if t.SourceDepth, err = readVector(f, "source_depth"); err != nil {
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}

	dsts := []**sparse.DenseArray{&t.ArrivalTime, &t.IncidenceAngle, &t.TakeoffAngle, &t.Efficiency}
	for i, v := range tableVars {
		arr, err := readArray(f, v.name)
		if err != nil {
			return nil, fmt.Errorf("lookup file %s: %w", path, err)
		}
		*dsts[i] = arr
	}
	return t, nil
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

func readArray(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	arr := sparse.ZerosDense(dims...)
	r := f.Reader(name, nil, nil)
	tmp := make([]float32, len(arr.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	for i, v := range tmp {
		arr.Elements[i] = float64(v)
	}
	return arr, nil
}
