package routes

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
)

func sample() Set {
	return Set{
		{{X: 1550, Y: 1400}, {X: 1450, Y: 1380}, {X: 1300, Y: 1350.5}},
		{{X: 850, Y: 1400}, {X: 700, Y: 700}},
	}
}

func TestLength(t *testing.T) {
	l := Line{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 14}}
	if got := l.Length(nil); math.Abs(got-15) > 1e-12 {
		t.Errorf("length: got %v, want 15", got)
	}
	anchor := geom.Point{X: -6, Y: -8}
	if got := l.Length(&anchor); math.Abs(got-25) > 1e-12 {
		t.Errorf("length with anchor: got %v, want 25", got)
	}
	if got := (Line{}).Length(&anchor); got != 0 {
		t.Errorf("empty line length: got %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proposals", "routes.geojson")
	want := sample()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("line %d: got %d points, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("line %d point %d: got %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestLoadOrSelectPrefersStored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	if err := Save(path, sample()); err != nil {
		t.Fatal(err)
	}
	called := false
	got, err := LoadOrSelect(path, func() (Set, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("selection must not run when a stored file exists")
	}
	if len(got) != 2 {
		t.Errorf("got %d lines, want 2", len(got))
	}
}

func TestLoadOrSelectRunsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	want := sample()
	got, err := LoadOrSelect(path, func() (Set, error) { return want, nil })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines", len(got))
	}
	stored, err := LoadFile(path)
	if err != nil {
		t.Fatalf("result was not persisted: %v", err)
	}
	if len(stored) != len(want) {
		t.Errorf("stored %d lines, want %d", len(stored), len(want))
	}
}

func TestLoadOrSelectCorruptFileFallsThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	if err := os.WriteFile(path, []byte("not geojson"), 0644); err != nil {
		t.Fatal(err)
	}
	called := false
	got, err := LoadOrSelect(path, func() (Set, error) {
		called = true
		return sample(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("corrupt file should fall through to selection")
	}
	if len(got) != 2 {
		t.Errorf("got %d lines, want 2", len(got))
	}
}

func TestLoadOrSelectEmptyResultNotSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	if _, err := LoadOrSelect(path, func() (Set, error) { return nil, nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("an empty selection should not be persisted")
	}
}

func TestLoadOrSelectNoPath(t *testing.T) {
	got, err := LoadOrSelect("", func() (Set, error) { return sample(), nil })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d lines, want 2", len(got))
	}
}
