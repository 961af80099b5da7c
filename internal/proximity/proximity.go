// Package proximity builds the undirected proximity graph of a swarm at one
// timestep: robots are nodes 0..N-1 and two robots are joined when their
// distance is at most a threshold.
package proximity

import (
	"sort"

	"github.com/san-kum/swarmstat/internal/swarm"
)

// DefaultThreshold is the communication range in arena units.
const DefaultThreshold = 0.1

// Edge joins robots I and J, always with I < J.
type Edge struct {
	I, J int
}

// Graph is rebuilt from scratch for every timestep; nothing carries over.
type Graph struct {
	N     int
	Edges []Edge
	adj   [][]int
}

// Build compares every pair once. Distances equal to threshold are edges.
func Build(pos []swarm.Position, threshold float64) *Graph {
	n := len(pos)
	g := &Graph{
		N:     n,
		Edges: make([]Edge, 0, n),
		adj:   make([][]int, n),
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if pos[i].Distance(pos[j]) <= threshold {
				g.Edges = append(g.Edges, Edge{I: i, J: j})
				g.adj[i] = append(g.adj[i], j)
				g.adj[j] = append(g.adj[j], i)
			}
		}
	}

	return g
}

// Neighbors returns the robots adjacent to i in ascending order.
func (g *Graph) Neighbors(i int) []int {
	if i < 0 || i >= g.N {
		return nil
	}
	out := make([]int, len(g.adj[i]))
	copy(out, g.adj[i])
	sort.Ints(out)
	return out
}

func (g *Graph) HasEdge(i, j int) bool {
	if i == j || i < 0 || j < 0 || i >= g.N || j >= g.N {
		return false
	}
	for _, k := range g.adj[i] {
		if k == j {
			return true
		}
	}
	return false
}

func (g *Graph) Degree(i int) int {
	if i < 0 || i >= g.N {
		return 0
	}
	return len(g.adj[i])
}
