package schemas

// -- Core Graph Models --
// These types are the pipeline's return value and its serialized export
// format. The JSON shape is the contract with the external visualizer.

// EntityType categorizes a node in the knowledge graph.
type EntityType string

const (
	EntityApplication EntityType = "Application"
	EntityDatabase    EntityType = "Database"
	EntityServer      EntityType = "Server"
	EntityPerson      EntityType = "Person"
	EntityTechnology  EntityType = "Technology"
	EntityLocation    EntityType = "Location"
	EntityComponent   EntityType = "Component"
)

// RelationType categorizes an edge between two entities.
type RelationType string

const (
	RelManages    RelationType = "MANAGES"
	RelUses       RelationType = "USES"
	RelRunsOn     RelationType = "RUNS_ON"
	RelHostedOn   RelationType = "HOSTED_ON"
	RelLocatedIn  RelationType = "LOCATED_IN"
	RelDependsOn  RelationType = "DEPENDS_ON"
	RelSharesData RelationType = "SHARES_DATA"
	RelConnectsTo RelationType = "CONNECTS_TO"
)

// Entity is a node. The ID doubles as the display label and is unique
// within a graph; the first occurrence of an ID wins.
type Entity struct {
	ID   string     `json:"id"`
	Type EntityType `json:"type"`
}

// Relation is a directed, typed edge between two entity IDs.
// Self-relations (Source == Target) are never produced.
type Relation struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   RelationType `json:"type"`
}

// Graph is the pipeline output. Node order is discovery order.
type Graph struct {
	Nodes []Entity   `json:"nodes"`
	Edges []Relation `json:"edges"`
}

// HasNode reports whether the graph contains an entity with the given ID.
func (g Graph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Centroid is an informational ranking entry: an entity ID and its total
// degree (in + out) in the synthesized graph.
type Centroid struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// ExtractionResult bundles an accepted graph with diagnostics about how it
// was produced. Stage names the cascade stage whose output validated.
type ExtractionResult struct {
	Graph     Graph      `json:"graph"`
	Stage     string     `json:"stage"`
	RunID     string     `json:"run_id"`
	Centroids []Centroid `json:"centroids,omitempty"`
}
