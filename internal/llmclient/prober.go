package llmclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/internal/metric"
)

// ErrNoContract is returned when every candidate request shape was rejected
// by the endpoint.
var ErrNoContract = errors.New("no working request contract found for endpoint")

// ContractCandidate is one enumerated request-body shape. Candidates are
// immutable configuration; all knowledge about "which shape does the server
// want" lives here and nowhere else.
type ContractCandidate struct {
	Name string
	Body func(prompt string, maxTokens int) map[string]any
}

// Candidates is the fixed probe order. Earlier shapes are the ones most
// commonly seen on hosted inference endpoints.
var Candidates = []ContractCandidate{
	{
		Name: "hf-inputs",
		Body: func(prompt string, maxTokens int) map[string]any {
			return map[string]any{
				"inputs": prompt,
				"parameters": map[string]any{
					"max_new_tokens": maxTokens,
					"temperature":    0.1,
				},
			}
		},
	},
	{
		Name: "chat-messages",
		Body: func(prompt string, maxTokens int) map[string]any {
			return map[string]any{
				"model": "default",
				"messages": []map[string]any{
					{"role": "user", "content": prompt},
				},
				"max_tokens":  maxTokens,
				"temperature": 0.1,
			}
		},
	},
	{
		Name: "plain-prompt",
		Body: func(prompt string, maxTokens int) map[string]any {
			return map[string]any{
				"prompt":      prompt,
				"max_tokens":  maxTokens,
				"temperature": 0.1,
			}
		},
	},
	{
		Name: "text-parameters",
		Body: func(prompt string, maxTokens int) map[string]any {
			return map[string]any{
				"text": prompt,
				"parameters": map[string]any{
					"max_tokens": maxTokens,
				},
			}
		},
	},
}

const (
	probeInstruction = "Reply with the single word READY."
	probeMarker      = "READY"
	probeMaxTokens   = 10
)

// Prober discovers which candidate shape the endpoint accepts.
type Prober struct {
	client  *Client
	timeout time.Duration
	metrics *metric.Metrics
	log     *zap.Logger
}

// NewProber creates a prober over the given client. The timeout applies per
// attempt. metrics may be nil.
func NewProber(client *Client, timeout time.Duration, metrics *metric.Metrics, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		client:  client,
		timeout: timeout,
		metrics: metrics,
		log:     logger.Named("prober"),
	}
}

// Probe tries each candidate in order against the endpoint, one at a time,
// synchronously. A candidate succeeds iff the call returns 200, the body
// decodes, and the extracted content contains the marker token. The first
// success wins and no further candidates are tried. Individual failures are
// non-fatal and advance to the next candidate; exhausting the list returns
// ErrNoContract.
func (p *Prober) Probe(ctx context.Context) (int, ContractCandidate, error) {
	for i, cand := range Candidates {
		content, err := p.client.Generate(ctx, cand, probeInstruction, probeMaxTokens, p.timeout)
		if err != nil {
			p.log.Debug("Probe candidate rejected",
				zap.String("candidate", cand.Name),
				zap.Error(err))
			p.count(cand.Name, "error")
			continue
		}
		if !strings.Contains(content, probeMarker) {
			p.log.Debug("Probe candidate returned content without marker",
				zap.String("candidate", cand.Name))
			p.count(cand.Name, "no_marker")
			continue
		}

		p.log.Info("Endpoint contract discovered",
			zap.Int("index", i),
			zap.String("candidate", cand.Name))
		p.count(cand.Name, "accepted")
		return i, cand, nil
	}

	p.log.Warn("All contract candidates exhausted")
	return -1, ContractCandidate{}, ErrNoContract
}

func (p *Prober) count(candidate, outcome string) {
	if p.metrics != nil {
		p.metrics.ProbeAttempts.WithLabelValues(candidate, outcome).Inc()
	}
}
