package knowledgegraph

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/api/schemas"
)

// InMemoryKG is an ephemeral, in-memory index over an extraction result.
// It answers the structural questions the query and render layers ask
// (neighbors, degrees, type histograms) without any external store.
type InMemoryKG struct {
	nodes    map[string]schemas.Entity
	order    []string                     // node IDs in insertion order
	edges    []schemas.Relation
	outgoing map[string][]schemas.Relation // key: source node ID
	incoming map[string][]schemas.Relation // key: target node ID
	mu       sync.RWMutex
	log      *zap.Logger
}

// NewInMemoryKG creates a new, empty in-memory knowledge graph.
func NewInMemoryKG(logger *zap.Logger) *InMemoryKG {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryKG{
		nodes:    make(map[string]schemas.Entity),
		outgoing: make(map[string][]schemas.Relation),
		incoming: make(map[string][]schemas.Relation),
		log:      logger.Named("InMemoryKG"),
	}
}

// FromGraph builds a fully loaded index from a pipeline result. Edges whose
// endpoints are missing from the node set are dropped rather than rejected;
// upstream stages occasionally emit them and the index must stay consistent.
func FromGraph(g schemas.Graph, logger *zap.Logger) *InMemoryKG {
	kg := NewInMemoryKG(logger)
	for _, n := range g.Nodes {
		kg.AddNode(n)
	}
	for _, e := range g.Edges {
		if err := kg.AddEdge(e); err != nil {
			kg.log.Debug("Dropping dangling edge", zap.String("source", e.Source), zap.String("target", e.Target), zap.Error(err))
		}
	}
	return kg
}

// AddNode adds a node. The first entity with a given ID wins; later
// additions under the same ID are ignored.
func (kg *InMemoryKG) AddNode(node schemas.Entity) {
	kg.mu.Lock()
	defer kg.mu.Unlock()

	if _, exists := kg.nodes[node.ID]; exists {
		return
	}
	kg.nodes[node.ID] = node
	kg.order = append(kg.order, node.ID)
	kg.log.Debug("Node added", zap.String("ID", node.ID), zap.String("Type", string(node.Type)))
}

// AddEdge adds a directed edge. Both endpoints must already exist and
// self-edges are refused.
func (kg *InMemoryKG) AddEdge(edge schemas.Relation) error {
	kg.mu.Lock()
	defer kg.mu.Unlock()

	if edge.Source == edge.Target {
		return fmt.Errorf("self edge on node '%s'", edge.Source)
	}
	if _, exists := kg.nodes[edge.Source]; !exists {
		return fmt.Errorf("source node with id '%s' not found for edge", edge.Source)
	}
	if _, exists := kg.nodes[edge.Target]; !exists {
		return fmt.Errorf("target node with id '%s' not found for edge", edge.Target)
	}

	kg.edges = append(kg.edges, edge)
	kg.outgoing[edge.Source] = append(kg.outgoing[edge.Source], edge)
	kg.incoming[edge.Target] = append(kg.incoming[edge.Target], edge)
	kg.log.Debug("Edge added", zap.String("From", edge.Source), zap.String("To", edge.Target), zap.String("Type", string(edge.Type)))
	return nil
}

// GetNode retrieves a node by its ID.
func (kg *InMemoryKG) GetNode(id string) (schemas.Entity, error) {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	node, ok := kg.nodes[id]
	if !ok {
		return schemas.Entity{}, fmt.Errorf("node with id '%s' not found", id)
	}
	return node, nil
}

// Nodes returns all nodes in insertion order.
func (kg *InMemoryKG) Nodes() []schemas.Entity {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	out := make([]schemas.Entity, 0, len(kg.order))
	for _, id := range kg.order {
		out = append(out, kg.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (kg *InMemoryKG) Edges() []schemas.Relation {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	out := make([]schemas.Relation, len(kg.edges))
	copy(out, kg.edges)
	return out
}

// Outgoing returns the edges leaving a node. A node with no outgoing edges
// yields an empty slice, not an error.
func (kg *InMemoryKG) Outgoing(nodeID string) ([]schemas.Relation, error) {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	if _, ok := kg.nodes[nodeID]; !ok {
		return nil, fmt.Errorf("node with id '%s' not found", nodeID)
	}
	edges := make([]schemas.Relation, len(kg.outgoing[nodeID]))
	copy(edges, kg.outgoing[nodeID])
	return edges, nil
}

// Incoming returns the edges arriving at a node.
func (kg *InMemoryKG) Incoming(nodeID string) ([]schemas.Relation, error) {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	if _, ok := kg.nodes[nodeID]; !ok {
		return nil, fmt.Errorf("node with id '%s' not found", nodeID)
	}
	edges := make([]schemas.Relation, len(kg.incoming[nodeID]))
	copy(edges, kg.incoming[nodeID])
	return edges, nil
}

// Neighbors finds all nodes reachable over one outgoing edge.
func (kg *InMemoryKG) Neighbors(nodeID string) ([]schemas.Entity, error) {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	if _, ok := kg.nodes[nodeID]; !ok {
		return nil, fmt.Errorf("node with id '%s' not found", nodeID)
	}
	edges := kg.outgoing[nodeID]
	neighbors := make([]schemas.Entity, 0, len(edges))
	for _, e := range edges {
		neighbors = append(neighbors, kg.nodes[e.Target])
	}
	return neighbors, nil
}

// Degree returns the total degree (in plus out) of a node, or zero for an
// unknown ID.
func (kg *InMemoryKG) Degree(nodeID string) int {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	return len(kg.outgoing[nodeID]) + len(kg.incoming[nodeID])
}

// NodesByType returns all nodes of the given type, in insertion order.
func (kg *InMemoryKG) NodesByType(t schemas.EntityType) []schemas.Entity {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	var out []schemas.Entity
	for _, id := range kg.order {
		if kg.nodes[id].Type == t {
			out = append(out, kg.nodes[id])
		}
	}
	return out
}

// Stats summarizes graph shape for reporting.
type Stats struct {
	NodeCount  int                         `json:"node_count"`
	EdgeCount  int                         `json:"edge_count"`
	TypeCounts map[schemas.EntityType]int  `json:"type_counts"`
	RelCounts  map[schemas.RelationType]int `json:"relation_counts"`
	Components int                         `json:"components"`
}

// Stats computes node and edge histograms and the number of weakly
// connected components.
func (kg *InMemoryKG) Stats() Stats {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	s := Stats{
		NodeCount:  len(kg.nodes),
		EdgeCount:  len(kg.edges),
		TypeCounts: make(map[schemas.EntityType]int),
		RelCounts:  make(map[schemas.RelationType]int),
	}
	for _, n := range kg.nodes {
		s.TypeCounts[n.Type]++
	}
	for _, e := range kg.edges {
		s.RelCounts[e.Type]++
	}
	s.Components = kg.countComponents()
	return s
}

// TopByDegree returns the n highest-degree nodes, ties broken by insertion
// order so the ranking is stable run to run.
func (kg *InMemoryKG) TopByDegree(n int) []schemas.Centroid {
	kg.mu.RLock()
	defer kg.mu.RUnlock()

	ranked := make([]schemas.Centroid, 0, len(kg.order))
	for _, id := range kg.order {
		ranked = append(ranked, schemas.Centroid{
			ID:     id,
			Degree: len(kg.outgoing[id]) + len(kg.incoming[id]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// countComponents counts weakly connected components, treating every edge
// as undirected. Caller holds the read lock.
func (kg *InMemoryKG) countComponents() int {
	adjacent := make(map[string][]string, len(kg.nodes))
	for _, e := range kg.edges {
		adjacent[e.Source] = append(adjacent[e.Source], e.Target)
		adjacent[e.Target] = append(adjacent[e.Target], e.Source)
	}

	visited := make(map[string]bool, len(kg.nodes))
	components := 0
	for _, id := range kg.order {
		if visited[id] {
			continue
		}
		components++
		stack := []string{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			stack = append(stack, adjacent[cur]...)
		}
	}
	return components
}
