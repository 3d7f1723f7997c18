package picker

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func TestSelectionFinishAndFinalize(t *testing.T) {
	var s Selection
	s.AddPoint(geom.Point{X: 0, Y: 0})
	s.AddPoint(geom.Point{X: 3, Y: 4})
	require.Len(t, s.Current(), 2)
	require.Equal(t, 0, s.LineIndex())

	require.True(t, s.FinishLine())
	require.Empty(t, s.Current())
	require.Len(t, s.Lines(), 1)
	require.Equal(t, 1, s.LineIndex())

	// Finishing with nothing drawn must not append an empty line.
	require.False(t, s.FinishLine())
	require.Len(t, s.Lines(), 1)

	s.AddPoint(geom.Point{X: 5, Y: 5})
	got := s.Finalize()
	require.Len(t, got, 2)
	require.Equal(t, geom.Point{X: 5, Y: 5}, got[1][0])
}

func TestSelectionStartLineFinishesCurrent(t *testing.T) {
	var s Selection
	s.AddPoint(geom.Point{X: 1, Y: 1})
	s.StartLine()
	require.Len(t, s.Lines(), 1)
	require.Empty(t, s.Current())

	// StartLine on an empty current changes nothing.
	s.StartLine()
	require.Len(t, s.Lines(), 1)
}

func TestSelectionClear(t *testing.T) {
	var s Selection
	s.AddPoint(geom.Point{X: 0, Y: 0})
	s.FinishLine()
	s.AddPoint(geom.Point{X: 2, Y: 2})

	s.ClearCurrent()
	require.Empty(t, s.Current())
	require.Len(t, s.Lines(), 1)

	s.ClearAll()
	require.Empty(t, s.Lines())
	require.Equal(t, 0, s.LineIndex())
	require.Empty(t, s.Finalize())
}

func TestSelectionCurrentLength(t *testing.T) {
	var s Selection
	s.AddPoint(geom.Point{X: 3, Y: 4})
	s.AddPoint(geom.Point{X: 3, Y: 14})

	anchor := geom.Point{X: 0, Y: 0}
	require.InDelta(t, 15, s.CurrentLength(&anchor), 1e-12)
	require.InDelta(t, 10, s.CurrentLength(nil), 1e-12)
}
