package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/api/schemas"
)

// Tabular fallback limits.
const (
	maxTabularEntities = 10
	minValueLength     = 3
)

// recordPrefixKV marks a row in the versioned kv/1 serialization: the word
// "record" followed by tab-separated key=value pairs.
const recordPrefixKV = "record\t"

// recordPrefixLegacy marks a row in the legacy sentence serialization:
// "Record N: col: val, col: val".
const recordPrefixLegacy = "Record "

// TabularExtractor rebuilds entities directly from the serialized sample
// rows inside a summary, bypassing the remote endpoint entirely. It
// understands the kv/1 format the summarizer emits and, for older
// summaries, the legacy sentence form. Rows that fail to parse are skipped
// one at a time; a bad row never aborts the stage.
type TabularExtractor struct {
	log *zap.Logger
}

// NewTabularExtractor creates a tabular fallback extractor.
func NewTabularExtractor(logger *zap.Logger) *TabularExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TabularExtractor{log: logger.Named("tabular-fallback")}
}

// Extract parses row lines out of the summary and emits one entity per
// non-trivial field value, classified by the column name. Entities
// deduplicate by ID with the first occurrence winning and are truncated to
// the first ten; relations are a CONNECTS_TO chain between consecutive
// entities in discovery order.
func (t *TabularExtractor) Extract(summary string) (schemas.Graph, error) {
	seen := make(map[string]struct{})
	var nodes []schemas.Entity

	add := func(column, value string) {
		if len(nodes) >= maxTabularEntities {
			return
		}
		value = strings.TrimSpace(value)
		if len(value) < minValueLength {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		nodes = append(nodes, schemas.Entity{ID: value, Type: ClassifyColumn(column)})
	}

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)

		fields, err := parseRow(line)
		if err != nil {
			t.log.Debug("Skipping unparseable row", zap.String("line", line), zap.Error(err))
			continue
		}
		for _, f := range fields {
			add(f.column, f.value)
		}
	}

	if len(nodes) < minEntities {
		return schemas.Graph{}, ErrInsufficientEntities
	}

	var edges []schemas.Relation
	for i := 0; i+1 < len(nodes); i++ {
		if nodes[i].ID == nodes[i+1].ID {
			continue
		}
		edges = append(edges, schemas.Relation{
			Source: nodes[i].ID,
			Target: nodes[i+1].ID,
			Type:   schemas.RelConnectsTo,
		})
	}

	t.log.Debug("Tabular extraction complete",
		zap.Int("entities", len(nodes)),
		zap.Int("relations", len(edges)))
	return schemas.Graph{Nodes: nodes, Edges: edges}, nil
}

type rowField struct {
	column string
	value  string
}

// parseRow turns one serialized row line back into ordered field/value
// pairs. Non-row lines return an error and are skipped by the caller.
func parseRow(line string) ([]rowField, error) {
	switch {
	case strings.HasPrefix(line, recordPrefixKV):
		return parseKVRow(strings.TrimPrefix(line, recordPrefixKV))
	case strings.HasPrefix(line, recordPrefixLegacy):
		return parseLegacyRow(line)
	}
	return nil, fmt.Errorf("not a row line")
}

func parseKVRow(rest string) ([]rowField, error) {
	var fields []rowField
	for _, pair := range strings.Split(rest, "\t") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed key=value pair %q", pair)
		}
		fields = append(fields, rowField{column: key, value: value})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty row")
	}
	return fields, nil
}

func parseLegacyRow(line string) ([]rowField, error) {
	_, rest, found := strings.Cut(line, ": ")
	if !found {
		return nil, fmt.Errorf("missing record separator")
	}
	var fields []rowField
	for _, pair := range strings.Split(rest, ", ") {
		column, value, ok := strings.Cut(pair, ": ")
		if !ok {
			continue
		}
		fields = append(fields, rowField{column: column, value: value})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no parseable fields")
	}
	return fields, nil
}
