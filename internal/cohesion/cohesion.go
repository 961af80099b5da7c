// Package cohesion partitions a proximity graph into connected components
// and reduces them to the largest-component fraction of the swarm.
package cohesion

import (
	"fmt"

	"github.com/san-kum/swarmstat/internal/proximity"
)

// Result describes the components of one timestep.
type Result struct {
	Score      float64
	Largest    int
	Components [][]int
	// NonSingleton counts components with more than one robot. Diagnostic only.
	NonSingleton int
}

// Evaluate returns the components of the n-node graph given by edges and the
// score Largest/n.
func Evaluate(n int, edges []proximity.Edge) (Result, error) {
	if n < 1 {
		return Result{}, fmt.Errorf("cohesion: population must be positive, got %d", n)
	}
	for _, e := range edges {
		if e.I < 0 || e.J < 0 || e.I >= n || e.J >= n {
			return Result{}, fmt.Errorf("cohesion: edge (%d,%d) outside %d robots", e.I, e.J, n)
		}
	}

	comps := Components(n, edges)
	res := Result{Components: comps}
	for _, c := range comps {
		if len(c) > res.Largest {
			res.Largest = len(c)
		}
		if len(c) > 1 {
			res.NonSingleton++
		}
	}
	res.Score = float64(res.Largest) / float64(n)
	return res, nil
}

// Score is Evaluate reduced to the scalar.
func Score(n int, edges []proximity.Edge) (float64, error) {
	res, err := Evaluate(n, edges)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// EvaluateGraph is Evaluate over a built graph.
func EvaluateGraph(g *proximity.Graph) (Result, error) {
	return Evaluate(g.N, g.Edges)
}

// Components returns every component with members ascending, ordered by
// smallest member. Isolated robots form singleton components. Edges must
// reference nodes below n.
func Components(n int, edges []proximity.Edge) [][]int {
	uf := newUnionFind(n)
	for _, e := range edges {
		uf.union(e.I, e.J)
	}

	index := make(map[int]int, n)
	comps := make([][]int, 0)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		k, ok := index[root]
		if !ok {
			k = len(comps)
			index[root] = k
			comps = append(comps, nil)
		}
		comps[k] = append(comps[k], i)
	}
	return comps
}

type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}
