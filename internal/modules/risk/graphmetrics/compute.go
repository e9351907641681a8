// Package graphmetrics derives structural risk from the household support graph:
// who the household cannot afford to lose and how deep dependency chains run.
package graphmetrics

import (
	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
)

// chainRiskDepth is the chain length above which an earner is flagged.
const chainRiskDepth = 2

// lowStabilityThreshold marks earners in all-earner households as critical.
const lowStabilityThreshold = 0.5

// Engine computes GraphMetrics. The zero value uses DefaultMaxDepth.
type Engine struct {
	Walker Walker
}

// Compute is the package-level shortcut for Engine{}.Compute.
func Compute(members []household.Member, supports []household.SupportEdge) household.GraphMetrics {
	return Engine{}.Compute(members, supports)
}

// Compute never fails; malformed members and edges degrade to safe defaults.
func (eng Engine) Compute(members []household.Member, supports []household.SupportEdge) household.GraphMetrics {
	if len(members) == 0 {
		return emptyMetrics(0)
	}

	g, index := buildGraph(members, supports)
	outDegree := make([]int, len(g.IDs))
	inDegree := make([]int, len(g.IDs))
	for from, targets := range g.Adj {
		outDegree[from] = len(targets)
		for _, to := range targets {
			inDegree[to]++
		}
	}
	degreeOf := func(id string, deg []int) int {
		if i, ok := index[id]; ok {
			return deg[i]
		}
		return 0
	}

	earners := make([]household.Member, 0, len(members))
	for _, m := range members {
		if m.IsEarner() {
			earners = append(earners, m)
		}
	}
	if len(earners) == 0 {
		return emptyMetrics(len(members))
	}

	critical := newOrderedSet()
	for _, e := range earners {
		if e.ID != "" && degreeOf(e.ID, outDegree) > 0 {
			critical.add(e.ID)
		}
	}

	if len(members)-len(earners) == 0 {
		for _, e := range earners {
			if e.ID == "" {
				continue
			}
			lowStability := e.IncomeStability != nil && *e.IncomeStability < lowStabilityThreshold
			if lowStability || degreeOf(e.ID, inDegree) > 0 || degreeOf(e.ID, outDegree) > 0 {
				critical.add(e.ID)
			}
		}
		if critical.size() == 0 {
			if id, ok := leastStableEarner(earners); ok {
				critical.add(id)
			}
		}
	}

	out := household.GraphMetrics{
		NumMembers:      len(members),
		NumEarners:      len(earners),
		CriticalMembers: critical.items(),
		ChainDetails:    []household.ChainDetail{},
	}
	for _, e := range earners {
		i, ok := index[e.ID]
		if e.ID == "" || !ok {
			continue
		}
		depth := eng.Walker.LongestChain(g, i)
		if depth > out.MaxChainDepth {
			out.MaxChainDepth = depth
		}
		if depth > chainRiskDepth {
			out.HasChainRisk = true
			out.ChainDetails = append(out.ChainDetails, household.ChainDetail{
				Earner:          e.ID,
				ChainDepth:      depth,
				TotalDependents: outDegree[i],
			})
		}
	}
	return out
}

func emptyMetrics(numMembers int) household.GraphMetrics {
	return household.GraphMetrics{
		NumMembers:      numMembers,
		NumEarners:      0,
		CriticalMembers: []string{},
		MaxChainDepth:   0,
		HasChainRisk:    false,
		ChainDetails:    []household.ChainDetail{},
	}
}

// buildGraph indexes every member with an id and keeps only edges between two
// distinct known members.
func buildGraph(members []household.Member, supports []household.SupportEdge) (Graph, map[string]int) {
	index := make(map[string]int, len(members))
	var g Graph
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		if _, seen := index[m.ID]; seen {
			continue
		}
		index[m.ID] = len(g.IDs)
		g.IDs = append(g.IDs, m.ID)
	}
	g.Adj = make([][]int, len(g.IDs))
	for _, s := range ValidSupports(supports, index) {
		from, to := index[s.From], index[s.To]
		g.Adj[from] = append(g.Adj[from], to)
	}
	return g, index
}

// ValidSupports filters edges down to those whose endpoints both exist and differ.
func ValidSupports(supports []household.SupportEdge, known map[string]int) []household.SupportEdge {
	out := make([]household.SupportEdge, 0, len(supports))
	for _, s := range supports {
		if s.From == "" || s.To == "" || s.From == s.To {
			continue
		}
		if _, ok := known[s.From]; !ok {
			continue
		}
		if _, ok := known[s.To]; !ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// leastStableEarner picks the lowest stability, first in member order on ties.
func leastStableEarner(earners []household.Member) (string, bool) {
	found := false
	var bestID string
	var best float64
	for _, e := range earners {
		if e.ID == "" {
			continue
		}
		if s := e.Stability(); !found || s < best {
			best, bestID, found = s, e.ID, true
		}
	}
	return bestID, found
}

// ExtractApplicant returns the first member flagged as the loan applicant.
func ExtractApplicant(members []household.Member) *household.Member {
	for _, m := range members {
		if m.IsApplicant {
			cp := m.Clone()
			return &cp
		}
	}
	return nil
}

type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, order: []string{}}
}

func (s *orderedSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *orderedSet) size() int { return len(s.order) }

func (s *orderedSet) items() []string { return s.order }
