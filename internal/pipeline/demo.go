package pipeline

import "github.com/kumarse1/KGV2/api/schemas"

// DemoGraph returns the fixed demonstration graph used as the cascade's
// terminal stage. It is constructed fresh on every call so callers can
// mutate their copy freely, and it always satisfies the validation gate.
func DemoGraph() schemas.Graph {
	return schemas.Graph{
		Nodes: []schemas.Entity{
			{ID: "Billing System", Type: schemas.EntityApplication},
			{ID: "Customer Database", Type: schemas.EntityDatabase},
			{ID: "App Server 01", Type: schemas.EntityServer},
			{ID: "Jane Doe", Type: schemas.EntityPerson},
		},
		Edges: []schemas.Relation{
			{Source: "Jane Doe", Target: "Billing System", Type: schemas.RelManages},
			{Source: "Billing System", Target: "Customer Database", Type: schemas.RelUses},
			{Source: "App Server 01", Target: "Billing System", Type: schemas.RelHostedOn},
		},
	}
}
