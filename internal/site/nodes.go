package site

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ctessum/geom"
)

// LoadNodes reads survey node coordinates from a CSV file with an
// "easting" and a "northing" column (any other columns are ignored).
// At most max nodes are returned, in file order; max <= 0 means all.
func LoadNodes(path string, max int) ([]geom.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open node file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read node header: %w", err)
	}
	ex, ny := -1, -1
	for i, name := range header {
		switch name {
		case "easting":
			ex = i
		case "northing":
			ny = i
		}
	}
	if ex < 0 || ny < 0 {
		return nil, fmt.Errorf("node file %s: missing easting/northing columns", path)
	}

	var nodes []geom.Point
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("node file %s row %d: %w", path, len(nodes)+2, err)
		}
		x, err := strconv.ParseFloat(rec[ex], 64)
		if err != nil {
			return nil, fmt.Errorf("node file %s row %d: %w", path, len(nodes)+2, err)
		}
		y, err := strconv.ParseFloat(rec[ny], 64)
		if err != nil {
			return nil, fmt.Errorf("node file %s row %d: %w", path, len(nodes)+2, err)
		}
		nodes = append(nodes, geom.Point{X: x, Y: y})
		if max > 0 && len(nodes) == max {
			break
		}
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node file %s: no nodes", path)
	}
	return nodes, nil
}
