package proximity

import (
	"math/rand"
	"testing"

	"github.com/san-kum/swarmstat/internal/swarm"
)

func TestBuild_Pairs(t *testing.T) {
	pos := []swarm.Position{{0, 0}, {0.05, 0}, {10, 10}, {10.05, 10}}
	g := Build(pos, DefaultThreshold)

	if g.N != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.N)
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %v", g.Edges)
	}
	if g.Edges[0] != (Edge{0, 1}) || g.Edges[1] != (Edge{2, 3}) {
		t.Errorf("unexpected edges %v", g.Edges)
	}
}

func TestBuild_NoEdge(t *testing.T) {
	g := Build([]swarm.Position{{0, 0}, {0.2, 0}}, DefaultThreshold)
	if len(g.Edges) != 0 {
		t.Errorf("expected no edges, got %v", g.Edges)
	}
}

func TestBuild_ThresholdInclusive(t *testing.T) {
	g := Build([]swarm.Position{{0, 0}, {0.5, 0}}, 0.5)
	if len(g.Edges) != 1 {
		t.Errorf("distance equal to threshold should be an edge, got %v", g.Edges)
	}

	g = Build([]swarm.Position{{0, 0}, {0.5000001, 0}}, 0.5)
	if len(g.Edges) != 0 {
		t.Errorf("distance above threshold should not be an edge, got %v", g.Edges)
	}
}

func TestBuild_SymmetricNoSelfLoops(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pos := make([]swarm.Position, 25)
	for i := range pos {
		pos[i] = swarm.Position{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
	}

	g := Build(pos, 0.2)
	for i := 0; i < g.N; i++ {
		if g.HasEdge(i, i) {
			t.Errorf("self loop at %d", i)
		}
		for j := 0; j < g.N; j++ {
			if g.HasEdge(i, j) != g.HasEdge(j, i) {
				t.Errorf("edge (%d,%d) not symmetric", i, j)
			}
			if i != j && g.HasEdge(i, j) != (pos[i].Distance(pos[j]) <= 0.2) {
				t.Errorf("edge (%d,%d) disagrees with distance", i, j)
			}
		}
	}
	for _, e := range g.Edges {
		if e.I >= e.J {
			t.Errorf("edge %v not ordered", e)
		}
	}
}

func TestBuild_Fresh(t *testing.T) {
	pos := []swarm.Position{{0, 0}, {0.05, 0}}
	g1 := Build(pos, DefaultThreshold)
	g2 := Build([]swarm.Position{{0, 0}, {1, 0}}, DefaultThreshold)

	if len(g1.Edges) != 1 || len(g2.Edges) != 0 {
		t.Errorf("graphs should be independent: %v %v", g1.Edges, g2.Edges)
	}
}

func TestGraph_Neighbors(t *testing.T) {
	pos := []swarm.Position{{0, 0}, {0.05, 0}, {0.1, 0}, {5, 5}}
	g := Build(pos, DefaultThreshold)

	nb := g.Neighbors(1)
	if len(nb) != 2 || nb[0] != 0 || nb[1] != 2 {
		t.Errorf("Neighbors(1) = %v, want [0 2]", nb)
	}
	if g.Degree(3) != 0 {
		t.Errorf("Degree(3) = %d, want 0", g.Degree(3))
	}
	if g.Neighbors(9) != nil {
		t.Error("expected nil neighbors for unknown node")
	}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, DefaultThreshold)
	if g.N != 0 || len(g.Edges) != 0 {
		t.Errorf("expected empty graph, got %+v", g)
	}
}
