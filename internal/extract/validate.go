package extract

import "github.com/kumarse1/KGV2/api/schemas"

// Structural acceptance thresholds. A graph below either bound is not worth
// rendering and the cascade tries its next stage.
const (
	minValidNodes = 3
	minValidEdges = 2
)

// Validate is the acceptance gate applied after every extraction attempt.
// It is a pure predicate: no deduplication, no repair. A rejected graph
// simply means "try the next stage".
func Validate(g schemas.Graph) bool {
	return len(g.Nodes) >= minValidNodes && len(g.Edges) >= minValidEdges
}
