package graphmetrics

import "testing"

func chainGraph(n int) Graph {
	g := Graph{IDs: make([]string, n), Adj: make([][]int, n)}
	for i := 0; i < n-1; i++ {
		g.Adj[i] = []int{i + 1}
	}
	return g
}

func TestWalkerCeiling(t *testing.T) {
	g := chainGraph(80)
	if got := (Walker{}).LongestChain(g, 0); got != DefaultMaxDepth+1 {
		t.Fatalf("default ceiling: want=%d got=%d", DefaultMaxDepth+1, got)
	}
	if got := (Walker{MaxDepth: 3}).LongestChain(g, 0); got != 4 {
		t.Fatalf("custom ceiling: want=4 got=%d", got)
	}
}

func TestWalkerBranchesTakeLongest(t *testing.T) {
	// 0 -> 1 -> 2 -> 3, 0 -> 4
	g := Graph{IDs: make([]string, 5), Adj: [][]int{{4, 1}, {2}, {3}, nil, nil}}
	if got := (Walker{}).LongestChain(g, 0); got != 4 {
		t.Fatalf("longest chain: want=4 got=%d", got)
	}
	if got := (Walker{}).LongestChain(g, 4); got != 1 {
		t.Fatalf("leaf chain: want=1 got=%d", got)
	}
}

func TestWalkerPathLocalVisited(t *testing.T) {
	// diamond 0->1->3, 0->2->3, 3->4: node 3 is reachable twice but never on one path twice
	g := Graph{IDs: make([]string, 5), Adj: [][]int{{1, 2}, {3}, {3}, {4}, nil}}
	if got := (Walker{}).LongestChain(g, 0); got != 4 {
		t.Fatalf("diamond: want=4 got=%d", got)
	}
	// self-loop and back edge
	cyc := Graph{IDs: make([]string, 2), Adj: [][]int{{0, 1}, {0}}}
	if got := (Walker{}).LongestChain(cyc, 0); got != 2 {
		t.Fatalf("cycle: want=2 got=%d", got)
	}
}

func TestWalkerOutOfRange(t *testing.T) {
	if got := (Walker{}).LongestChain(Graph{}, 0); got != 0 {
		t.Fatalf("empty graph: want=0 got=%d", got)
	}
}
