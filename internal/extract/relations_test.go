package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarse1/KGV2/api/schemas"
)

func entity(id string, t schemas.EntityType) schemas.Entity {
	return schemas.Entity{ID: id, Type: t}
}

func TestSynthesizeFullScenario(t *testing.T) {
	g := Groups{
		People:       []schemas.Entity{entity("P", schemas.EntityPerson)},
		Applications: []schemas.Entity{entity("A1", schemas.EntityApplication), entity("A2", schemas.EntityApplication)},
		Databases:    []schemas.Entity{entity("D1", schemas.EntityDatabase)},
		Servers:      []schemas.Entity{entity("S1", schemas.EntityServer)},
		Locations:    []schemas.Entity{entity("L1", schemas.EntityLocation)},
	}

	expected := []schemas.Relation{
		{Source: "P", Target: "A1", Type: schemas.RelManages},
		{Source: "P", Target: "A2", Type: schemas.RelManages},
		{Source: "A1", Target: "D1", Type: schemas.RelUses},
		{Source: "A2", Target: "D1", Type: schemas.RelUses},
		{Source: "S1", Target: "A1", Type: schemas.RelHostedOn},
		{Source: "S1", Target: "A2", Type: schemas.RelHostedOn},
		{Source: "S1", Target: "D1", Type: schemas.RelHostedOn},
		{Source: "S1", Target: "L1", Type: schemas.RelLocatedIn},
		{Source: "A1", Target: "A2", Type: schemas.RelDependsOn},
		{Source: "A2", Target: "D1", Type: schemas.RelSharesData},
	}

	// Identical output on repeated runs.
	for i := 0; i < 3; i++ {
		edges := Synthesize(g)
		assert.ElementsMatch(t, expected, edges)
	}
}

func TestSynthesizeBounds(t *testing.T) {
	apps := []schemas.Entity{
		entity("A1", schemas.EntityApplication),
		entity("A2", schemas.EntityApplication),
		entity("A3", schemas.EntityApplication),
	}
	g := Groups{
		People:       []schemas.Entity{entity("P", schemas.EntityPerson)},
		Applications: apps,
		Databases:    []schemas.Entity{entity("D1", schemas.EntityDatabase), entity("D2", schemas.EntityDatabase)},
	}

	edges := Synthesize(g)

	manages := 0
	for _, e := range edges {
		if e.Type == schemas.RelManages {
			manages++
			assert.NotEqual(t, "A3", e.Target, "person manages only the first two applications")
		}
		if e.Type == schemas.RelUses {
			assert.Equal(t, "D1", e.Target, "applications use only the first database")
		}
	}
	assert.Equal(t, 2, manages)
}

func TestSynthesizeNoSelfRelations(t *testing.T) {
	// The same ID classified into two groups must not produce a self edge.
	shared := entity("Core System", schemas.EntityApplication)
	g := Groups{
		Applications: []schemas.Entity{shared, entity("Other App", schemas.EntityApplication)},
		Databases:    []schemas.Entity{{ID: "Core System", Type: schemas.EntityDatabase}},
	}

	for _, e := range Synthesize(g) {
		assert.NotEqual(t, e.Source, e.Target)
	}
}

func TestSynthesizeEmptyGroups(t *testing.T) {
	assert.Empty(t, Synthesize(Groups{}))

	onlyPeople := Groups{People: []schemas.Entity{entity("P", schemas.EntityPerson)}}
	assert.Empty(t, Synthesize(onlyPeople))
}

func TestSynthesizeDependsOnChain(t *testing.T) {
	g := Groups{Applications: []schemas.Entity{
		entity("A1", schemas.EntityApplication),
		entity("A2", schemas.EntityApplication),
		entity("A3", schemas.EntityApplication),
	}}

	var chain []schemas.Relation
	for _, e := range Synthesize(g) {
		if e.Type == schemas.RelDependsOn {
			chain = append(chain, e)
		}
	}
	require.Len(t, chain, 2)
	assert.Equal(t, schemas.Relation{Source: "A1", Target: "A2", Type: schemas.RelDependsOn}, chain[0])
	assert.Equal(t, schemas.Relation{Source: "A2", Target: "A3", Type: schemas.RelDependsOn}, chain[1])
}

func TestCentroids(t *testing.T) {
	nodes := []schemas.Entity{
		entity("A", schemas.EntityApplication),
		entity("B", schemas.EntityDatabase),
		entity("C", schemas.EntityServer),
		entity("D", schemas.EntityPerson),
	}
	edges := []schemas.Relation{
		{Source: "A", Target: "B", Type: schemas.RelUses},
		{Source: "C", Target: "A", Type: schemas.RelHostedOn},
		{Source: "D", Target: "A", Type: schemas.RelManages},
	}

	top := Centroids(nodes, edges, 3)
	require.Len(t, top, 3)
	assert.Equal(t, schemas.Centroid{ID: "A", Degree: 3}, top[0])
	// B, C and D all have degree 1; discovery order breaks the tie.
	assert.Equal(t, "B", top[1].ID)
	assert.Equal(t, "C", top[2].ID)
}
