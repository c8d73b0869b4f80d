package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarse1/KGV2/api/schemas"
)

func TestExtractQuotedAndTitleCase(t *testing.T) {
	p := NewPatternExtractor(nil)

	text := `the "Billing System" talks to 'Customer Database' and is run by Jane Doe`
	entities, err := p.Extract(text)
	require.NoError(t, err)

	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	// Quoted names come before title-case runs.
	assert.Equal(t, "Billing System", ids[0])
	assert.Equal(t, "Customer Database", ids[1])
	assert.Contains(t, ids, "Jane Doe")
}

func TestExtractDeduplicatesFirstWins(t *testing.T) {
	p := NewPatternExtractor(nil)

	text := `"Billing System" and again "Billing System" plus 'Billing System' near Customer Database and Jane Doe`
	entities, err := p.Extract(text)
	require.NoError(t, err)

	count := 0
	for _, e := range entities {
		if e.ID == "Billing System" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractInsufficientEntities(t *testing.T) {
	p := NewPatternExtractor(nil)

	_, err := p.Extract("nothing capitalized here at all")
	assert.ErrorIs(t, err, ErrInsufficientEntities)

	_, err = p.Extract(`only "One Thing" mentioned`)
	assert.ErrorIs(t, err, ErrInsufficientEntities)
}

func TestExtractCapsAtTwelve(t *testing.T) {
	p := NewPatternExtractor(nil)

	var sb strings.Builder
	for _, w := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot",
		"Golf", "Hotel", "India", "Juliett", "Kilo", "Lima", "Mike", "November"} {
		sb.WriteString(`"` + w + `" `)
	}

	entities, err := p.Extract(sb.String())
	require.NoError(t, err)
	assert.Len(t, entities, 12)
	assert.Equal(t, "Alpha", entities[0].ID)
	assert.Equal(t, "Lima", entities[11].ID)
}

func TestExtractClassifiesCandidates(t *testing.T) {
	p := NewPatternExtractor(nil)

	entities, err := p.Extract(`"Billing System" uses "Customer Database" and "John Carter" owns it`)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entities), 3)

	byID := make(map[string]schemas.EntityType)
	for _, e := range entities {
		byID[e.ID] = e.Type
	}
	assert.Equal(t, schemas.EntityApplication, byID["Billing System"])
	assert.Equal(t, schemas.EntityDatabase, byID["Customer Database"])
	assert.Equal(t, schemas.EntityPerson, byID["John Carter"])
}

func TestExtractQuoteLengthBounds(t *testing.T) {
	p := NewPatternExtractor(nil)

	long := strings.Repeat("x", 31)
	text := `"a" "` + long + `" "Billing System" "Customer Database" "John Carter"`
	entities, err := p.Extract(text)
	require.NoError(t, err)

	for _, e := range entities {
		assert.NotEqual(t, "a", e.ID)
		assert.NotEqual(t, long, e.ID)
	}
}
