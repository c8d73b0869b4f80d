// Package query answers natural language questions about an extracted
// graph. Routing is regex based: the question is matched against a fixed
// set of patterns and dispatched to a structural lookup on the graph
// index. Unrecognized questions return example phrasings instead of an
// error.
package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/api/schemas"
	"github.com/kumarse1/KGV2/internal/knowledgegraph"
)

// Kind names the query form a question resolved to.
type Kind string

const (
	KindWhoManages   Kind = "who_manages"
	KindWhatManages  Kind = "what_manages"
	KindDependencies Kind = "dependencies"
	KindByLocation   Kind = "by_location"
	KindByType       Kind = "by_type"
	KindEntityInfo   Kind = "entity_info"
	KindUnknown      Kind = "unknown"
)

// Match is one entity surfaced by a query, with the relation that
// connected it to the subject.
type Match struct {
	ID       string             `json:"id"`
	Type     schemas.EntityType `json:"type"`
	Relation string             `json:"relation,omitempty"`
}

// Answer is the structured result of one question.
type Answer struct {
	Kind        Kind    `json:"kind"`
	Subject     string  `json:"subject,omitempty"`
	Matches     []Match `json:"matches,omitempty"`
	Message     string  `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// dependencyRelations are the edge types treated as a dependency when
// answering "what does X depend on".
var dependencyRelations = map[schemas.RelationType]bool{
	schemas.RelDependsOn:  true,
	schemas.RelUses:       true,
	schemas.RelRunsOn:     true,
	schemas.RelConnectsTo: true,
}

var (
	whoManagesRe  = regexp.MustCompile(`who (?:manages|owns|administers|controls) (.+?)[?.]?$`)
	whatManagesRe = regexp.MustCompile(`what does (.+?) (?:manage|own|administer|control)[?.]?$`)
	dependsRe     = regexp.MustCompile(`(?:dependencies (?:for|of)|what does) (.+?)(?: depend on)?[?.]?$`)
	dependsOnRe   = regexp.MustCompile(`what depends on (.+?)[?.]?$`)
	locationRe    = regexp.MustCompile(`(?:what|which|show|list)(?:.*?) in (.+?)[?.]?$`)
	byTypeRe      = regexp.MustCompile(`(?:show|list|find) (?:all )?(\w+?)s?[?.]?$`)
)

// typeAliases maps the words people use in type queries onto entity types.
var typeAliases = map[string]schemas.EntityType{
	"application": schemas.EntityApplication,
	"app":         schemas.EntityApplication,
	"system":      schemas.EntityApplication,
	"database":    schemas.EntityDatabase,
	"server":      schemas.EntityServer,
	"host":        schemas.EntityServer,
	"person":      schemas.EntityPerson,
	"people":      schemas.EntityPerson,
	"user":        schemas.EntityPerson,
	"technology":  schemas.EntityTechnology,
	"location":    schemas.EntityLocation,
	"datacenter":  schemas.EntityLocation,
	"component":   schemas.EntityComponent,
}

var suggestions = []string{
	"Who manages Billing System?",
	"What does Jane Doe manage?",
	"What does Billing System depend on?",
	"What is in DataCenter A?",
	"Show all servers",
}

// Engine routes questions against one graph index.
type Engine struct {
	kg  *knowledgegraph.InMemoryKG
	log *zap.Logger
}

// NewEngine creates a query engine over the given graph index.
func NewEngine(kg *knowledgegraph.InMemoryKG, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{kg: kg, log: logger.Named("query")}
}

// Ask routes a question to the matching lookup. Patterns are tried in a
// fixed order and the first match wins; a short unmatched question is
// treated as a bare entity name before giving up.
func (e *Engine) Ask(question string) Answer {
	q := strings.ToLower(strings.TrimSpace(question))
	e.log.Debug("Processing question", zap.String("question", q))

	if m := whoManagesRe.FindStringSubmatch(q); m != nil {
		return e.whoManages(strings.TrimSpace(m[1]))
	}
	if m := whatManagesRe.FindStringSubmatch(q); m != nil {
		return e.whatManages(strings.TrimSpace(m[1]))
	}
	if m := dependsOnRe.FindStringSubmatch(q); m != nil {
		return e.dependents(strings.TrimSpace(m[1]))
	}
	if m := dependsRe.FindStringSubmatch(q); m != nil {
		return e.dependencies(strings.TrimSpace(m[1]))
	}
	if m := locationRe.FindStringSubmatch(q); m != nil {
		if a := e.byLocation(strings.TrimSpace(m[1])); a.Kind != KindUnknown {
			return a
		}
	}
	if m := byTypeRe.FindStringSubmatch(q); m != nil {
		if t, ok := typeAliases[strings.TrimSpace(m[1])]; ok {
			return e.byType(t)
		}
	}

	// A very short question might just be an entity name.
	if len(strings.Fields(q)) <= 3 {
		name := strings.Trim(q, "?. ")
		if id, ok := e.resolve(name); ok {
			return e.entityInfo(id)
		}
	}

	return Answer{
		Kind:        KindUnknown,
		Message:     fmt.Sprintf("could not understand question: %s", question),
		Suggestions: suggestions,
	}
}

// resolve finds a node ID by name: exact case-insensitive match first,
// then substring containment either way, then single-word overlap.
func (e *Engine) resolve(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	nodes := e.kg.Nodes()

	for _, n := range nodes {
		if strings.ToLower(n.ID) == name {
			return n.ID, true
		}
	}
	for _, n := range nodes {
		id := strings.ToLower(n.ID)
		if strings.Contains(id, name) || strings.Contains(name, id) {
			return n.ID, true
		}
	}
	words := strings.Fields(name)
	for _, n := range nodes {
		idWords := strings.Fields(strings.ToLower(n.ID))
		for _, w := range words {
			for _, iw := range idWords {
				if w == iw {
					return n.ID, true
				}
			}
		}
	}
	return "", false
}

func (e *Engine) whoManages(name string) Answer {
	id, ok := e.resolve(name)
	if !ok {
		return notFound(KindWhoManages, name)
	}
	incoming, _ := e.kg.Incoming(id)
	var matches []Match
	for _, edge := range incoming {
		if edge.Type != schemas.RelManages {
			continue
		}
		if n, err := e.kg.GetNode(edge.Source); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	a := Answer{Kind: KindWhoManages, Subject: id, Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("no managers found for %s", id)
	}
	return a
}

func (e *Engine) whatManages(name string) Answer {
	id, ok := e.resolve(name)
	if !ok {
		return notFound(KindWhatManages, name)
	}
	outgoing, _ := e.kg.Outgoing(id)
	var matches []Match
	for _, edge := range outgoing {
		if edge.Type != schemas.RelManages {
			continue
		}
		if n, err := e.kg.GetNode(edge.Target); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	a := Answer{Kind: KindWhatManages, Subject: id, Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("%s does not manage anything directly", id)
	}
	return a
}

func (e *Engine) dependencies(name string) Answer {
	id, ok := e.resolve(name)
	if !ok {
		return notFound(KindDependencies, name)
	}
	outgoing, _ := e.kg.Outgoing(id)
	var matches []Match
	for _, edge := range outgoing {
		if !dependencyRelations[edge.Type] {
			continue
		}
		if n, err := e.kg.GetNode(edge.Target); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	a := Answer{Kind: KindDependencies, Subject: id, Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("%s has no recorded dependencies", id)
	}
	return a
}

func (e *Engine) dependents(name string) Answer {
	id, ok := e.resolve(name)
	if !ok {
		return notFound(KindDependencies, name)
	}
	incoming, _ := e.kg.Incoming(id)
	var matches []Match
	for _, edge := range incoming {
		if !dependencyRelations[edge.Type] {
			continue
		}
		if n, err := e.kg.GetNode(edge.Source); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	a := Answer{Kind: KindDependencies, Subject: id, Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("nothing depends on %s", id)
	}
	return a
}

func (e *Engine) byLocation(name string) Answer {
	id, ok := e.resolve(name)
	if !ok {
		return Answer{Kind: KindUnknown}
	}
	incoming, _ := e.kg.Incoming(id)
	var matches []Match
	for _, edge := range incoming {
		if edge.Type != schemas.RelLocatedIn {
			continue
		}
		if n, err := e.kg.GetNode(edge.Source); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	a := Answer{Kind: KindByLocation, Subject: id, Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("no items found in %s", id)
	}
	return a
}

// byType lists entities of one type, most connected first.
func (e *Engine) byType(t schemas.EntityType) Answer {
	nodes := e.kg.NodesByType(t)
	matches := make([]Match, 0, len(nodes))
	for _, n := range nodes {
		matches = append(matches, Match{ID: n.ID, Type: n.Type})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return e.kg.Degree(matches[i].ID) > e.kg.Degree(matches[j].ID)
	})
	a := Answer{Kind: KindByType, Subject: string(t), Matches: matches}
	if len(matches) == 0 {
		a.Message = fmt.Sprintf("no entities found of type %s", t)
	}
	return a
}

// entityInfo reports everything directly connected to one entity.
func (e *Engine) entityInfo(id string) Answer {
	var matches []Match
	outgoing, _ := e.kg.Outgoing(id)
	for _, edge := range outgoing {
		if n, err := e.kg.GetNode(edge.Target); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	incoming, _ := e.kg.Incoming(id)
	for _, edge := range incoming {
		if n, err := e.kg.GetNode(edge.Source); err == nil {
			matches = append(matches, Match{ID: n.ID, Type: n.Type, Relation: string(edge.Type)})
		}
	}
	return Answer{Kind: KindEntityInfo, Subject: id, Matches: matches}
}

func notFound(kind Kind, name string) Answer {
	return Answer{Kind: kind, Message: fmt.Sprintf("could not find entity: %s", name)}
}
