package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarse1/KGV2/api/schemas"
	"github.com/kumarse1/KGV2/internal/knowledgegraph"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	g := schemas.Graph{
		Nodes: []schemas.Entity{
			{ID: "Billing System", Type: schemas.EntityApplication},
			{ID: "CRM Portal", Type: schemas.EntityApplication},
			{ID: "Customer Database", Type: schemas.EntityDatabase},
			{ID: "Web Server 01", Type: schemas.EntityServer},
			{ID: "Jane Doe", Type: schemas.EntityPerson},
			{ID: "DataCenter East", Type: schemas.EntityLocation},
		},
		Edges: []schemas.Relation{
			{Source: "Jane Doe", Target: "Billing System", Type: schemas.RelManages},
			{Source: "Jane Doe", Target: "CRM Portal", Type: schemas.RelManages},
			{Source: "Billing System", Target: "Customer Database", Type: schemas.RelUses},
			{Source: "Billing System", Target: "CRM Portal", Type: schemas.RelDependsOn},
			{Source: "Web Server 01", Target: "DataCenter East", Type: schemas.RelLocatedIn},
		},
	}
	return NewEngine(knowledgegraph.FromGraph(g, nil), nil)
}

func TestAskWhoManages(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("Who manages Billing System?")
	assert.Equal(t, KindWhoManages, a.Kind)
	require.Len(t, a.Matches, 1)
	assert.Equal(t, "Jane Doe", a.Matches[0].ID)

	a = e.Ask("Who manages Customer Database?")
	assert.Equal(t, KindWhoManages, a.Kind)
	assert.Empty(t, a.Matches)
	assert.NotEmpty(t, a.Message)
}

func TestAskWhatManages(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("What does Jane Doe manage?")
	assert.Equal(t, KindWhatManages, a.Kind)
	require.Len(t, a.Matches, 2)
	assert.Equal(t, "Billing System", a.Matches[0].ID)
	assert.Equal(t, "CRM Portal", a.Matches[1].ID)
}

func TestAskDependencies(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("What does Billing System depend on?")
	assert.Equal(t, KindDependencies, a.Kind)
	ids := make([]string, 0, len(a.Matches))
	for _, m := range a.Matches {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"Customer Database", "CRM Portal"}, ids)
}

func TestAskDependents(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("What depends on Customer Database?")
	assert.Equal(t, KindDependencies, a.Kind)
	require.Len(t, a.Matches, 1)
	assert.Equal(t, "Billing System", a.Matches[0].ID)
}

func TestAskByLocation(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("What is in DataCenter East?")
	assert.Equal(t, KindByLocation, a.Kind)
	require.Len(t, a.Matches, 1)
	assert.Equal(t, "Web Server 01", a.Matches[0].ID)
}

func TestAskByType(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("Show all servers")
	assert.Equal(t, KindByType, a.Kind)
	require.Len(t, a.Matches, 1)
	assert.Equal(t, "Web Server 01", a.Matches[0].ID)

	a = e.Ask("Show all people")
	assert.Equal(t, KindByType, a.Kind)
	require.Len(t, a.Matches, 1)
	assert.Equal(t, "Jane Doe", a.Matches[0].ID)
}

func TestAskBareEntityName(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("Billing System")
	assert.Equal(t, KindEntityInfo, a.Kind)
	assert.NotEmpty(t, a.Matches)
}

func TestAskUnknownReturnsSuggestions(t *testing.T) {
	e := testEngine(t)

	a := e.Ask("please recalculate the quarterly financial projections immediately")
	assert.Equal(t, KindUnknown, a.Kind)
	assert.NotEmpty(t, a.Suggestions)
}

func TestResolvePartialName(t *testing.T) {
	e := testEngine(t)

	// Partial and case-insensitive matching.
	a := e.Ask("Who manages billing?")
	assert.Equal(t, KindWhoManages, a.Kind)
	assert.Equal(t, "Billing System", a.Subject)
}
