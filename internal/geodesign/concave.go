package geodesign

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// ConcaveHull computes a concave hull of the points as a CCW polygon by
// peeling long boundary edges off the Delaunay triangulation (the
// chi-shape construction). ratio is in [0, 1]: boundary edges longer
// than min + ratio*(max-min) of the initial boundary edge lengths are
// candidates for removal, so ratio=1 reproduces the convex hull and
// smaller ratios follow the point set more tightly.
func ConcaveHull(pts []geom.Point, ratio float64) (geom.Polygon, error) {
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("geodesign: concave hull ratio %g outside [0, 1]", ratio)
	}
	tris, err := delaunay(pts)
	if err != nil {
		return nil, err
	}

	alive := make(map[triangle]bool, len(tris))
	for _, t := range tris {
		alive[t] = true
	}

	// threshold from the initial boundary edge lengths
	minLen, maxLen := math.Inf(1), math.Inf(-1)
	for e := range boundaryEdges(alive) {
		l := dist(pts[e[0]], pts[e[1]])
		minLen = math.Min(minLen, l)
		maxLen = math.Max(maxLen, l)
	}
	threshold := minLen + ratio*(maxLen-minLen)

	for {
		boundary := boundaryEdges(alive)
		onBoundary := make(map[int]bool)
		for e := range boundary {
			onBoundary[e[0]] = true
			onBoundary[e[1]] = true
		}

		// peel the longest removable edge; edges are visited in vertex
		// index order so length ties resolve the same way every run
		var best triangle
		bestLen := threshold
		found := false
		for _, e := range sortedEdges(boundary) {
			t := boundary[e]
			l := dist(pts[e[0]], pts[e[1]])
			if l <= bestLen {
				continue
			}
			// the opposite vertex must be interior, or removal would
			// pinch the boundary
			opp := t.a + t.b + t.c - e[0] - e[1]
			if onBoundary[opp] {
				continue
			}
			if boundaryEdgeCount(t, boundary) != 1 {
				continue
			}
			best, bestLen, found = t, l, true
		}
		if !found {
			break
		}
		delete(alive, best)
	}

	ring, err := traceBoundary(pts, boundaryEdges(alive))
	if err != nil {
		return nil, err
	}
	return geom.Polygon{ccw(ring)}, nil
}

// boundaryEdges maps each edge belonging to exactly one live triangle to
// that triangle.
func boundaryEdges(alive map[triangle]bool) map[[2]int]triangle {
	count := make(map[[2]int]int)
	owner := make(map[[2]int]triangle)
	for t := range alive {
		for _, e := range t.edges() {
			count[e]++
			owner[e] = t
		}
	}
	out := make(map[[2]int]triangle)
	for e, c := range count {
		if c == 1 {
			out[e] = owner[e]
		}
	}
	return out
}

// sortedEdges lists the boundary edges in vertex index order.
func sortedEdges(boundary map[[2]int]triangle) [][2]int {
	edges := make([][2]int, 0, len(boundary))
	for e := range boundary {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

func boundaryEdgeCount(t triangle, boundary map[[2]int]triangle) int {
	n := 0
	for _, e := range t.edges() {
		if _, ok := boundary[e]; ok {
			n++
		}
	}
	return n
}

// traceBoundary links the boundary edges into a single closed ring,
// starting at the lowest vertex index and walking toward its lower
// neighbor so the same edge set always yields the same ring.
func traceBoundary(pts []geom.Point, boundary map[[2]int]triangle) ([]geom.Point, error) {
	adj := make(map[int][]int)
	for e := range boundary {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	start := -1
	for v, ns := range adj {
		if len(ns) != 2 {
			return nil, fmt.Errorf("geodesign: hull boundary is not a simple loop at vertex %d", v)
		}
		sort.Ints(ns)
		if start < 0 || v < start {
			start = v
		}
	}

	ring := []geom.Point{pts[start]}
	prev, cur := -1, start
	for {
		next := adj[cur][0]
		if next == prev {
			next = adj[cur][1]
		}
		if next == start {
			break
		}
		ring = append(ring, pts[next])
		prev, cur = cur, next
		if len(ring) > len(adj) {
			return nil, fmt.Errorf("geodesign: hull boundary does not close")
		}
	}
	if len(ring) != len(adj) {
		return nil, fmt.Errorf("geodesign: hull boundary has %d loops", 1+len(adj)-len(ring))
	}
	return ring, nil
}
