package extract

import (
	"sort"

	"github.com/kumarse1/KGV2/api/schemas"
)

// Synthesize derives typed edges from the classified entity groups. Rules
// run in a fixed order and each rule is bounded, so the edge count stays
// linear in the entity count. The output is fully deterministic for a given
// input and never contains a self-relation.
func Synthesize(g Groups) []schemas.Relation {
	var edges []schemas.Relation

	link := func(source, target schemas.Entity, rel schemas.RelationType) {
		if source.ID == target.ID {
			return
		}
		edges = append(edges, schemas.Relation{Source: source.ID, Target: target.ID, Type: rel})
	}

	// Each person manages the first two applications.
	for _, person := range g.People {
		for _, app := range firstN(g.Applications, 2) {
			link(person, app, schemas.RelManages)
		}
	}

	// Each application uses the first database and runs on the first
	// technology.
	for _, app := range g.Applications {
		for _, db := range firstN(g.Databases, 1) {
			link(app, db, schemas.RelUses)
		}
		for _, tech := range firstN(g.Technologies, 1) {
			link(app, tech, schemas.RelRunsOn)
		}
	}

	// Each server hosts the first two applications and the first database,
	// and sits in the first location.
	for _, srv := range g.Servers {
		for _, app := range firstN(g.Applications, 2) {
			link(srv, app, schemas.RelHostedOn)
		}
		for _, db := range firstN(g.Databases, 1) {
			link(srv, db, schemas.RelHostedOn)
		}
		for _, loc := range firstN(g.Locations, 1) {
			link(srv, loc, schemas.RelLocatedIn)
		}
	}

	// Dependency chain between consecutive applications.
	for i := 0; i+1 < len(g.Applications); i++ {
		link(g.Applications[i], g.Applications[i+1], schemas.RelDependsOn)
	}

	// Every application after the first shares data with the first
	// database.
	if len(g.Databases) > 0 {
		for _, app := range g.Applications[min(1, len(g.Applications)):] {
			link(app, g.Databases[0], schemas.RelSharesData)
		}
	}

	return edges
}

func firstN(entities []schemas.Entity, n int) []schemas.Entity {
	if len(entities) < n {
		return entities
	}
	return entities[:n]
}

// Centroids ranks entities by total degree (in + out) and returns the top n.
// Ties break by discovery order. This is informational output only; nothing
// structural depends on it.
func Centroids(nodes []schemas.Entity, edges []schemas.Relation, n int) []schemas.Centroid {
	degree := make(map[string]int, len(nodes))
	for _, e := range edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	order := make(map[string]int, len(nodes))
	ranked := make([]schemas.Centroid, 0, len(nodes))
	for i, node := range nodes {
		order[node.ID] = i
		ranked = append(ranked, schemas.Centroid{ID: node.ID, Degree: degree[node.ID]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Degree != ranked[j].Degree {
			return ranked[i].Degree > ranked[j].Degree
		}
		return order[ranked[i].ID] < order[ranked[j].ID]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
