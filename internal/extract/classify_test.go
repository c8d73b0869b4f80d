package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumarse1/KGV2/api/schemas"
)

func TestClassifyName(t *testing.T) {
	testCases := []struct {
		name     string
		expected schemas.EntityType
	}{
		{"Billing System", schemas.EntityApplication},
		{"Customer Portal", schemas.EntityApplication},
		{"Customer Database", schemas.EntityDatabase},
		{"Data Warehouse", schemas.EntityDatabase},
		{"Web Server 01", schemas.EntityServer},
		{"Oracle", schemas.EntityTechnology},
		{"Linux", schemas.EntityTechnology},
		{"DataCenter East", schemas.EntityDatabase}, // "data" fires before "datacenter"
		{"Main Office", schemas.EntityLocation},
		{"John Carter", schemas.EntityPerson},
		{"Jane Doe", schemas.EntityPerson},
		{"Widget", schemas.EntityComponent},
		{"lowercase words", schemas.EntityComponent},
		{"Three Word Name", schemas.EntityComponent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyName(tc.name))
		})
	}
}

func TestClassifyNameKeywordBeatsPersonShape(t *testing.T) {
	// Two title-cased words, but the keyword rule fires first.
	assert.Equal(t, schemas.EntityApplication, ClassifyName("Billing System"))
	assert.Equal(t, schemas.EntityServer, ClassifyName("Build Machine"))
}

func TestClassifyColumn(t *testing.T) {
	testCases := []struct {
		column   string
		expected schemas.EntityType
	}{
		{"application_name", schemas.EntityApplication},
		{"database", schemas.EntityDatabase},
		{"server_ip", schemas.EntityServer},
		{"owner", schemas.EntityPerson},
		{"manager_name", schemas.EntityPerson},
		{"assigned_user", schemas.EntityPerson},
		{"notes", schemas.EntityComponent},
	}

	for _, tc := range testCases {
		t.Run(tc.column, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyColumn(tc.column))
		})
	}
}

func TestGroupEntitiesPreservesOrder(t *testing.T) {
	entities := []schemas.Entity{
		{ID: "CRM Portal", Type: schemas.EntityApplication},
		{ID: "Jane Doe", Type: schemas.EntityPerson},
		{ID: "Billing System", Type: schemas.EntityApplication},
		{ID: "Widget", Type: schemas.EntityComponent},
	}

	g := GroupEntities(entities)
	assert.Len(t, g.Applications, 2)
	assert.Equal(t, "CRM Portal", g.Applications[0].ID)
	assert.Equal(t, "Billing System", g.Applications[1].ID)
	assert.Len(t, g.People, 1)
	assert.Len(t, g.Components, 1)
	assert.Empty(t, g.Databases)
}
