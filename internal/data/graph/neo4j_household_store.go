package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/neo4jdb"
)

// Neo4jHouseholdStore reads households from the (:Household)<-[:BELONGS_TO]-(:Person)
// graph with [:SUPPORTS] edges between people and [:EARNS_FROM] edges to
// (:IncomeSource) nodes.
type Neo4jHouseholdStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jHouseholdStore(log *logger.Logger, client *neo4jdb.Client) (*Neo4jHouseholdStore, error) {
	if log == nil {
		return nil, errors.New("graph: logger required")
	}
	if client == nil || client.Driver == nil {
		return nil, errors.New("graph: neo4j client required")
	}
	return &Neo4jHouseholdStore{client: client, log: log.With("repo", "Neo4jHouseholdStore")}, nil
}

const (
	householdExistsQuery = `
MATCH (h:Household {id: $household_id})
RETURN h.id AS id
LIMIT 1
`
	householdMembersQuery = `
MATCH (h:Household {id: $household_id})<-[:BELONGS_TO]-(p:Person)
OPTIONAL MATCH (p)-[:EARNS_FROM]->(is:IncomeSource)
WITH p, collect(is) AS sources
RETURN p AS person, sources
ORDER BY coalesce(p.created_at, ''), p.id
`
	householdSupportsQuery = `
MATCH (h:Household {id: $household_id})<-[:BELONGS_TO]-(p:Person)-[r:SUPPORTS]->(d:Person)
RETURN p.id AS from, d.id AS to, r.strength AS strength
ORDER BY p.id, d.id
`
)

func (s *Neo4jHouseholdStore) FetchSnapshot(ctx context.Context, householdID string) (*household.Snapshot, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	params := map[string]any{"household_id": householdID}
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, householdExistsQuery, params)
		if err != nil {
			return nil, err
		}
		exists, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(exists) == 0 {
			return nil, household.ErrNotFound
		}

		snap := &household.Snapshot{
			HouseholdID: householdID,
			Members:     []household.Member{},
			Supports:    []household.SupportEdge{},
		}

		res, err = tx.Run(ctx, householdMembersQuery, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			m, ok := memberFromRecord(rec)
			if !ok {
				continue
			}
			snap.Members = append(snap.Members, m)
		}

		res, err = tx.Run(ctx, householdSupportsQuery, params)
		if err != nil {
			return nil, err
		}
		records, err = res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if edge, ok := supportFromRecord(rec); ok {
				snap.Supports = append(snap.Supports, edge)
			}
		}
		return snap, nil
	})
	if err != nil {
		if errors.Is(err, household.ErrNotFound) {
			return nil, fmt.Errorf("household %q: %w", householdID, household.ErrNotFound)
		}
		s.log.Error("fetch household snapshot failed", "household_id", householdID, "error", err)
		return nil, fmt.Errorf("fetch household snapshot: %w", err)
	}
	return out.(*household.Snapshot), nil
}

func memberFromRecord(rec *neo4j.Record) (household.Member, bool) {
	raw, ok := rec.Get("person")
	if !ok {
		return household.Member{}, false
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return household.Member{}, false
	}
	m := memberFromProps(node.Props)

	if rawSources, ok := rec.Get("sources"); ok {
		if list, ok := rawSources.([]any); ok {
			for _, item := range list {
				if srcNode, ok := item.(neo4j.Node); ok {
					m.IncomeSources = append(m.IncomeSources, sourceFromProps(srcNode.Props))
				}
			}
		}
	}
	return m, true
}

func supportFromRecord(rec *neo4j.Record) (household.SupportEdge, bool) {
	from, _ := rec.Get("from")
	to, _ := rec.Get("to")
	strength, _ := rec.Get("strength")
	edge := household.SupportEdge{From: str(from), To: str(to), Strength: num(strength)}
	return edge, edge.From != "" && edge.To != ""
}
