// Package picker lets an operator trace candidate cable routes over the
// design space by clicking in a map window. The drawing state machine is
// kept separate from the window code so it can be exercised directly.
package picker

import (
	"github.com/ctessum/geom"

	"daslayout/internal/routes"
)

// Selection accumulates clicked points into the current line and moves
// finished lines into the result set. The cycle is: points accumulate on
// each click; finishing moves them into the result and starts a new
// empty line; closing the window finalizes whatever is in progress.
type Selection struct {
	finished routes.Set
	current  routes.Line
	index    int
}

// AddPoint appends a point to the current line.
func (s *Selection) AddPoint(p geom.Point) {
	s.current = append(s.current, p)
}

// Current is the in-progress line.
func (s *Selection) Current() routes.Line {
	return s.current
}

// Lines are the finished lines so far.
func (s *Selection) Lines() routes.Set {
	return s.finished
}

// LineIndex numbers the current line, for color cycling.
func (s *Selection) LineIndex() int {
	return s.index
}

// StartLine begins a new line, finishing the current one first.
func (s *Selection) StartLine() {
	s.FinishLine()
}

// FinishLine moves the current line into the result. Finishing an empty
// line is a no-op: no empty polyline is ever appended.
func (s *Selection) FinishLine() bool {
	if len(s.current) == 0 {
		return false
	}
	s.finished = append(s.finished, s.current)
	s.current = nil
	s.index++
	return true
}

// ClearCurrent drops only the unfinished line.
func (s *Selection) ClearCurrent() {
	s.current = nil
}

// ClearAll resets the whole selection.
func (s *Selection) ClearAll() {
	s.finished = nil
	s.current = nil
	s.index = 0
}

// Finalize finishes any in-progress line and returns the result.
func (s *Selection) Finalize() routes.Set {
	s.FinishLine()
	return append(routes.Set(nil), s.finished...)
}

// CurrentLength is the length of the in-progress line, including the
// anchor leg when an anchor is given.
func (s *Selection) CurrentLength(anchor *geom.Point) float64 {
	return s.current.Length(anchor)
}
