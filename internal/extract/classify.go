// Package extract turns free text or serialized row data into typed
// entities and relations. It never parses model output as JSON; free text
// is the uniform input, whatever produced it.
package extract

import (
	"errors"
	"strings"
	"unicode"

	"github.com/kumarse1/KGV2/api/schemas"
)

// ErrInsufficientEntities signals that fewer than the minimum number of
// usable entities were found. This is an expected condition, not a fault;
// the orchestrator advances the cascade on it.
var ErrInsufficientEntities = errors.New("insufficient entities extracted")

// minEntities is the minimum candidate count below which extraction is
// reported as insufficient.
const minEntities = 3

// typeKeywords drives keyword classification. Rules are applied in slice
// order and the first match wins; the Person rule and the Component default
// apply only when no keyword rule fires.
var typeKeywords = []struct {
	Type     schemas.EntityType
	Keywords []string
}{
	{schemas.EntityApplication, []string{"system", "app", "application", "portal", "platform", "management", "service"}},
	{schemas.EntityDatabase, []string{"database", "db", "data", "warehouse"}},
	{schemas.EntityServer, []string{"server", "host", "machine", "vm", "infrastructure"}},
	{schemas.EntityTechnology, []string{"windows", "linux", "oracle", "mysql", "java", "python", "apache"}},
	{schemas.EntityLocation, []string{"datacenter", "center", "site", "location", "office", "cloud"}},
}

// personColumnKeywords extends classification for the tabular fallback,
// where the column name rather than the value is classified.
var personColumnKeywords = []string{"person", "owner", "manager", "user"}

// ClassifyName assigns an entity type to a display name. Exactly two
// title-cased words with no keyword match classify as Person; anything else
// unmatched is a Component.
func ClassifyName(name string) schemas.EntityType {
	if t, ok := classifyKeywords(name); ok {
		return t
	}
	if isPersonName(name) {
		return schemas.EntityPerson
	}
	return schemas.EntityComponent
}

// ClassifyColumn assigns an entity type from a column name, used by the
// tabular fallback. The keyword sets match ClassifyName, with an extra
// Person rule keyed on ownership-style column names.
func ClassifyColumn(column string) schemas.EntityType {
	if t, ok := classifyKeywords(column); ok {
		return t
	}
	lower := strings.ToLower(column)
	for _, kw := range personColumnKeywords {
		if strings.Contains(lower, kw) {
			return schemas.EntityPerson
		}
	}
	return schemas.EntityComponent
}

func classifyKeywords(name string) (schemas.EntityType, bool) {
	lower := strings.ToLower(name)
	for _, rule := range typeKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type, true
			}
		}
	}
	return "", false
}

func isPersonName(name string) bool {
	words := strings.Fields(name)
	if len(words) != 2 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}

// Groups holds entities partitioned by type, each slice in discovery order.
// The relationship synthesizer consumes this shape.
type Groups struct {
	Applications []schemas.Entity
	Databases    []schemas.Entity
	Servers      []schemas.Entity
	People       []schemas.Entity
	Technologies []schemas.Entity
	Locations    []schemas.Entity
	Components   []schemas.Entity
}

// GroupEntities partitions classified entities by type, preserving order.
func GroupEntities(entities []schemas.Entity) Groups {
	var g Groups
	for _, e := range entities {
		switch e.Type {
		case schemas.EntityApplication:
			g.Applications = append(g.Applications, e)
		case schemas.EntityDatabase:
			g.Databases = append(g.Databases, e)
		case schemas.EntityServer:
			g.Servers = append(g.Servers, e)
		case schemas.EntityPerson:
			g.People = append(g.People, e)
		case schemas.EntityTechnology:
			g.Technologies = append(g.Technologies, e)
		case schemas.EntityLocation:
			g.Locations = append(g.Locations, e)
		default:
			g.Components = append(g.Components, e)
		}
	}
	return g
}
