package extract

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/api/schemas"
)

// maxCandidates caps how many entity candidates one extraction considers.
const maxCandidates = 12

var (
	doubleQuoted = regexp.MustCompile(`"([^"\n]{2,30})"`)
	singleQuoted = regexp.MustCompile(`'([^'\n]{2,30})'`)
	// Runs of 1 to 4 title-cased words.
	titleCaseRun = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+){0,3}\b`)
)

// PatternExtractor is the deterministic heuristic that turns arbitrary free
// text into typed entities: quoted substrings and capitalized word runs are
// candidate names, classified by keyword.
type PatternExtractor struct {
	log *zap.Logger
}

// NewPatternExtractor creates a pattern-based entity extractor.
func NewPatternExtractor(logger *zap.Logger) *PatternExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternExtractor{log: logger.Named("pattern-extractor")}
}

// Extract collects candidate names from the text and classifies each. It
// returns ErrInsufficientEntities when fewer than three candidates survive
// deduplication; otherwise the first twelve, in discovery order.
func (p *PatternExtractor) Extract(text string) ([]schemas.Entity, error) {
	seen := make(map[string]struct{})
	var names []string

	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, m := range doubleQuoted.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range singleQuoted.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range titleCaseRun.FindAllString(text, -1) {
		add(m)
	}

	if len(names) < minEntities {
		p.log.Debug("Too few entity candidates in text", zap.Int("candidates", len(names)))
		return nil, ErrInsufficientEntities
	}
	if len(names) > maxCandidates {
		names = names[:maxCandidates]
	}

	entities := make([]schemas.Entity, 0, len(names))
	for _, name := range names {
		entities = append(entities, schemas.Entity{ID: name, Type: ClassifyName(name)})
	}

	p.log.Debug("Pattern extraction complete", zap.Int("entities", len(entities)))
	return entities, nil
}
