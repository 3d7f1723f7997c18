package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAxisValues(t *testing.T) {
	tests := []struct {
		axis Axis
		n    int
		last float64
	}{
		{Axis{Min: 0, Max: 100, Step: 20}, 6, 100},
		{Axis{Min: 0, Max: 2500, Step: 50}, 51, 2500},
		{Axis{Min: 0, Max: 90, Step: 20}, 5, 80},
		{Axis{Min: 5, Max: 5, Step: 1}, 1, 5},
	}
	for _, tt := range tests {
		vals := tt.axis.Values()
		if len(vals) != tt.n {
			t.Errorf("Axis%+v: got %d values, want %d", tt.axis, len(vals), tt.n)
			continue
		}
		if vals[0] != tt.axis.Min || vals[len(vals)-1] != tt.last {
			t.Errorf("Axis%+v: got range [%v, %v], want [%v, %v]",
				tt.axis, vals[0], vals[len(vals)-1], tt.axis.Min, tt.last)
		}
	}
}

func TestAxisValuesInvalid(t *testing.T) {
	if vals := (Axis{Min: 10, Max: 0, Step: 1}).Values(); vals != nil {
		t.Errorf("inverted axis: got %v, want nil", vals)
	}
	if vals := (Axis{Min: 0, Max: 10, Step: 0}).Values(); vals != nil {
		t.Errorf("zero step: got %v, want nil", vals)
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.ShoulderNodes != 378 || s.MaxNodes != 835 {
		t.Errorf("node counts: got %d/%d, want 378/835", s.ShoulderNodes, s.MaxNodes)
	}
	if s.HullRatio != 0.1 || s.FullBuffer != 20 || s.ROIShrink != 10 {
		t.Errorf("geometry constants changed: %v %v %v", s.HullRatio, s.FullBuffer, s.ROIShrink)
	}
	if len(s.Obstacles) != 6 {
		t.Errorf("obstacles: got %d, want 6", len(s.Obstacles))
	}
	for _, o := range s.Obstacles {
		if len(o.Points) < 2 || o.Radius <= 0 {
			t.Errorf("obstacle %s is degenerate", o.Name)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := "name: elsewhere\nlat: 63.6\nlon: -19.6\nhull_ratio: 0.25\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "elsewhere" || s.Lat != 63.6 || s.HullRatio != 0.25 {
		t.Errorf("explicit fields not honored: %+v", s)
	}
	d := Default()
	if s.ShoulderNodes != d.ShoulderNodes || s.FullBuffer != d.FullBuffer {
		t.Errorf("defaults not applied: got %d/%v", s.ShoulderNodes, s.FullBuffer)
	}
	if len(s.Obstacles) != len(d.Obstacles) {
		t.Errorf("default obstacles not applied: got %d", len(s.Obstacles))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	s := Default()
	s.Name = "roundtrip"
	s.DistanceGrid = Axis{Min: 100, Max: 900, Step: 200}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "roundtrip" || got.DistanceGrid != s.DistanceGrid {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Obstacles) != len(s.Obstacles) {
		t.Errorf("obstacles: got %d, want %d", len(got.Obstacles), len(s.Obstacles))
	}
}

func TestLoadNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.csv")
	content := "station,easting,northing,elev\na1,100.5,200.25,1400\na2,110,210,1401\na3,120,220,1402\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	nodes, err := LoadNodes(path, 0)
	if err != nil {
		t.Fatalf("LoadNodes: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	if nodes[0].X != 100.5 || nodes[0].Y != 200.25 {
		t.Errorf("first node: got %+v", nodes[0])
	}

	nodes, err = LoadNodes(path, 2)
	if err != nil {
		t.Fatalf("LoadNodes capped: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("cap: got %d nodes, want 2", len(nodes))
	}
}

func TestLoadNodesMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.csv")
	content := "easting,northing\n100,200\nbadrow\n300,400\n500,600\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	nodes, err := LoadNodes(path, 0)
	if err == nil {
		t.Fatalf("expected error for short row, got %d nodes", len(nodes))
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error should name the bad row: %v", err)
	}
}

func TestLoadNodesMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadNodes(path, 0); err == nil {
		t.Error("expected error for missing easting/northing columns")
	}
}
