// Package render maps an extracted graph onto concrete visual attributes
// for the external visualizer: per-type node colors, degree-scaled node
// sizes, and per-relation edge styling. The output is plain JSON-ready
// structs; no drawing happens here.
package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/api/schemas"
)

// Node sizing constants. Size grows with degree from a fixed base, with
// well-connected hubs boosted once more before capping.
const (
	baseNodeSize     = 18
	sizePerDegree    = 2
	maxNodeSize      = 40
	hubDegree        = 4
	hubBoost         = 1.25
	defaultNodeColor = "#95a5a6"
	defaultEdgeColor = "#7f8c8d"
)

// nodePalette assigns each entity type its display color.
var nodePalette = map[schemas.EntityType]string{
	schemas.EntityApplication: "#4e79a7",
	schemas.EntityDatabase:    "#f28e2b",
	schemas.EntityServer:      "#e15759",
	schemas.EntityPerson:      "#76b7b2",
	schemas.EntityTechnology:  "#59a14f",
	schemas.EntityLocation:    "#edc948",
	schemas.EntityComponent:   "#b07aa1",
}

// edgeStyle describes how one relation type is drawn.
type edgeStyle struct {
	color  string
	width  float64
	dashes bool
}

var edgePalette = map[schemas.RelationType]edgeStyle{
	schemas.RelManages:    {color: "#76b7b2", width: 2.5},
	schemas.RelUses:       {color: "#4e79a7", width: 2},
	schemas.RelRunsOn:     {color: "#59a14f", width: 2},
	schemas.RelHostedOn:   {color: "#e15759", width: 2},
	schemas.RelLocatedIn:  {color: "#edc948", width: 1.5, dashes: true},
	schemas.RelDependsOn:  {color: "#b07aa1", width: 2, dashes: true},
	schemas.RelSharesData: {color: "#f28e2b", width: 1.5, dashes: true},
	schemas.RelConnectsTo: {color: defaultEdgeColor, width: 1},
}

// Node is a fully styled visualizer node.
type Node struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Type    string  `json:"type"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	Tooltip string  `json:"title"`
}

// Edge is a fully styled visualizer edge.
type Edge struct {
	Source string  `json:"from"`
	Target string  `json:"to"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dashes bool    `json:"dashes,omitempty"`
}

// View is the complete render payload for one graph.
type View struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Renderer styles graphs for display.
type Renderer struct {
	log *zap.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{log: logger.Named("render")}
}

// Render maps a graph onto visual attributes. Edges that reference a
// missing node, and self-loops, are dropped silently; the view must always
// be drawable no matter what the upstream stage produced.
func (r *Renderer) Render(g schemas.Graph) View {
	degrees := make(map[string]int, len(g.Nodes))
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}

	var edges []Edge
	for _, e := range g.Edges {
		if e.Source == e.Target || !ids[e.Source] || !ids[e.Target] {
			r.log.Debug("Dropping undrawable edge",
				zap.String("source", e.Source),
				zap.String("target", e.Target))
			continue
		}
		degrees[e.Source]++
		degrees[e.Target]++

		style, ok := edgePalette[e.Type]
		if !ok {
			style = edgeStyle{color: defaultEdgeColor, width: 1}
		}
		edges = append(edges, Edge{
			Source: e.Source,
			Target: e.Target,
			Label:  string(e.Type),
			Color:  style.color,
			Width:  style.width,
			Dashes: style.dashes,
		})
	}

	nodes := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		color, ok := nodePalette[n.Type]
		if !ok {
			color = defaultNodeColor
		}
		degree := degrees[n.ID]
		nodes = append(nodes, Node{
			ID:      n.ID,
			Label:   n.ID,
			Type:    string(n.Type),
			Color:   color,
			Size:    nodeSize(degree),
			Tooltip: fmt.Sprintf("%s (%s)\nConnections: %d", n.ID, n.Type, degree),
		})
	}

	return View{Nodes: nodes, Edges: edges}
}

// nodeSize scales a node by its degree: a fixed base plus a per-connection
// increment, a multiplicative boost for hubs, capped at the maximum.
func nodeSize(degree int) float64 {
	size := float64(baseNodeSize + sizePerDegree*degree)
	if degree > hubDegree {
		size *= hubBoost
	}
	if size > maxNodeSize {
		size = maxNodeSize
	}
	return size
}
