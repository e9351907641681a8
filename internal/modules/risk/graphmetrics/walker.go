package graphmetrics

// DefaultMaxDepth bounds how far a chain walk descends even on acyclic graphs.
const DefaultMaxDepth = 50

// Graph is an arena-indexed adjacency list: node i supports every node in Adj[i].
// Parallel edges are kept, they do not change the result.
type Graph struct {
	IDs []string
	Adj [][]int
}

// Walker measures dependency chains. A node already on the current path, or
// one that would sit deeper than MaxDepth, ends its branch and contributes 0.
type Walker struct {
	MaxDepth int
}

type frame struct {
	node  int
	depth int
	next  int
	best  int
}

// LongestChain returns the number of links in the longest support path that
// starts at start. A node without outgoing edges counts itself, so an isolated
// earner has depth 1.
func (w Walker) LongestChain(g Graph, start int) int {
	if start < 0 || start >= len(g.Adj) {
		return 0
	}
	maxDepth := w.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	onPath := make([]bool, len(g.Adj))
	onPath[start] = true
	stack := []frame{{node: start}}
	result := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(g.Adj[top.node]) {
			child := g.Adj[top.node][top.next]
			top.next++
			childDepth := top.depth + 1
			if onPath[child] || childDepth > maxDepth {
				continue
			}
			onPath[child] = true
			stack = append(stack, frame{node: child, depth: childDepth})
			continue
		}

		length := 1 + top.best
		onPath[top.node] = false
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			result = length
			break
		}
		if parent := &stack[len(stack)-1]; length > parent.best {
			parent.best = length
		}
	}
	return result
}
