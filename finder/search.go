package finder

import (
	"cmp"
	"container/heap"
	"fmt"
	"slices"

	"golang.org/x/net/html"
)

// A searchLimit controls how many candidates may compete per ancestor
// level during one bottom-up traversal. The limits are tried from the
// most to the least expressive one; cheaper limits only get a chance when
// the more expressive ones fail or blow the combination threshold.
type searchLimit int

const (
	limitAll searchLimit = iota
	limitTwo
	limitOne
	limitNone
)

func (l searchLimit) String() string {
	switch l {
	case limitAll:
		return "all"
	case limitTwo:
		return "two"
	case limitOne:
		return "one"
	default:
		return "none"
	}
}

// bottomUpSearch walks from the target node towards the root, stacking
// one candidate list per ancestor level, and probes the stack for a
// unique combination after every level once seedMinLength levels have
// accumulated. Comment nodes contribute no candidates but still count as
// a level. Returns nil if no unique path exists under this limit.
func (c *config) bottomUpSearch(target *html.Node, limit searchLimit) (path, error) {
	var stack [][]knot
	current := target
	for i := 0; current != nil && current.Type != html.DocumentNode; i++ {
		if current.Type != html.ElementNode {
			current = current.Parent
			continue
		}

		level := c.levelKnots(current, limit == limitAll)
		nth := nodeIndex(current)
		switch limit {
		case limitAll:
			if nth > 0 {
				var augmented []knot
				for _, k := range level {
					if dispensableNth(k) {
						augmented = append(augmented, nthChild(k, nth))
					}
				}
				level = append(level, augmented...)
			}
		case limitTwo:
			level = level[:1]
			if nth > 0 {
				level = append(level, nthChild(level[0], nth))
			}
		case limitOne:
			level = level[:1]
			if nth > 0 && dispensableNth(level[0]) {
				level = []knot{nthChild(level[0], nth)}
			}
		case limitNone:
			level = []knot{anyKnot()}
			if nth > 0 {
				level = []knot{nthChild(level[0], nth)}
			}
		}

		for j := range level {
			level[j].level = i
		}
		stack = append(stack, level)
		current = current.Parent

		if len(stack) >= c.seedMinLength {
			p, err := c.findUniquePath(stack)
			if err != nil {
				return nil, err
			}
			if p != nil {
				return p, nil
			}
		}
	}
	// root exhausted, one final attempt with everything accumulated
	return c.findUniquePath(stack)
}

// findUniquePath enumerates complete candidate paths over the stacked
// levels in ascending penalty order and returns the first unique one, or
// nil if there is none. If the total number of combinations exceeds the
// configured threshold the attempt is abandoned without testing anything.
func (c *config) findUniquePath(stack [][]knot) (path, error) {
	if len(stack) == 0 {
		return nil, nil
	}
	combinations := 1
	for _, level := range stack {
		combinations *= len(level)
		if combinations > c.threshold {
			return nil, nil
		}
	}
	e := newPathEnumerator(stack)
	for p := e.next(); p != nil; p = e.next() {
		ok, err := c.unique(p)
		if err != nil {
			return nil, err
		}
		if ok {
			return p, nil
		}
	}
	return nil, nil
}

// A pathEnumerator produces the cartesian product of per-level candidate
// lists as complete paths in ascending total-penalty order, without
// materializing the whole product up front. Each level is sorted by
// penalty and a min-heap over index vectors drives the expansion: popping
// the cheapest vector pushes every vector reachable by advancing a single
// level index.
type pathEnumerator struct {
	levels  [][]knot
	heap    vectorHeap
	visited map[string]bool
}

type vector struct {
	indices []int
	penalty float64
}

type vectorHeap []vector

func (h vectorHeap) Len() int            { return len(h) }
func (h vectorHeap) Less(i, j int) bool  { return h[i].penalty < h[j].penalty }
func (h vectorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vectorHeap) Push(x any)         { *h = append(*h, x.(vector)) }
func (h *vectorHeap) Pop() any {
	old := *h
	v := old[len(old)-1]
	*h = old[:len(old)-1]
	return v
}

func newPathEnumerator(stack [][]knot) *pathEnumerator {
	levels := make([][]knot, len(stack))
	for i, level := range stack {
		sorted := slices.Clone(level)
		slices.SortStableFunc(sorted, func(a, b knot) int {
			return cmp.Compare(a.penalty, b.penalty)
		})
		levels[i] = sorted
	}
	e := &pathEnumerator{levels: levels, visited: map[string]bool{}}
	start := vector{indices: make([]int, len(levels))}
	start.penalty = e.penaltyOf(start.indices)
	heap.Push(&e.heap, start)
	e.visited[indexKey(start.indices)] = true
	return e
}

func (e *pathEnumerator) penaltyOf(indices []int) float64 {
	var sum float64
	for i, j := range indices {
		sum += e.levels[i][j].penalty
	}
	return sum
}

// next returns the cheapest path not yet produced, or nil when the
// product is exhausted.
func (e *pathEnumerator) next() path {
	if e.heap.Len() == 0 {
		return nil
	}
	v := heap.Pop(&e.heap).(vector)
	for i := range v.indices {
		if v.indices[i]+1 >= len(e.levels[i]) {
			continue
		}
		succ := slices.Clone(v.indices)
		succ[i]++
		key := indexKey(succ)
		if e.visited[key] {
			continue
		}
		e.visited[key] = true
		heap.Push(&e.heap, vector{indices: succ, penalty: e.penaltyOf(succ)})
	}
	p := make(path, len(v.indices))
	for i, j := range v.indices {
		p[i] = e.levels[i][j]
	}
	return p
}

func indexKey(indices []int) string {
	return fmt.Sprint(indices)
}
