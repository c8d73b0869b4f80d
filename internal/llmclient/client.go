// Package llmclient talks to the remote extraction endpoint. The endpoint
// is Basic-Auth protected and its request contract is unknown; the Prober
// discovers which of the enumerated candidate shapes it accepts, and the
// Client sends generation requests through a discovered candidate.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/internal/config"
)

// maxResponseBytes bounds how much of an endpoint response is read.
const maxResponseBytes = 1 << 20

// Client is a thin Basic-Auth wrapper around the standard http.Client.
type Client struct {
	httpClient *http.Client
	url        string
	username   string
	password   string
	log        *zap.Logger
}

// New creates an endpoint client from the configuration. Per-call timeouts
// are supplied by the caller; the embedded client carries no overall timeout
// of its own.
func New(cfg config.EndpointConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{},
		url:        cfg.URL,
		username:   cfg.Username,
		password:   cfg.Password,
		log:        logger.Named("llmclient"),
	}
}

// Generate sends the prompt through the given contract candidate and returns
// the textual content extracted from the response. Any transport error,
// non-200 status, undecodable body, or missing content field is returned as
// an error; callers treat all of these as a stage failure, never a retry.
func (c *Client) Generate(ctx context.Context, cand ContractCandidate, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	raw, status, err := c.post(ctx, cand.Body(prompt, maxTokens), timeout)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("endpoint returned status %d", status)
	}

	content, ok := ExtractContent(raw)
	if !ok {
		return "", fmt.Errorf("no content field found in endpoint response")
	}
	return content, nil
}

// post issues one blocking JSON POST with an explicit timeout. Cancellation
// mid-call is not supported; an aborting caller lets the timeout elapse.
func (c *Client) post(ctx context.Context, body map[string]any, timeout time.Duration) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("endpoint call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

// contentKeys are the alternative key names under which endpoints have been
// observed to place their textual payload, in search order.
var contentKeys = []string{"generated_text", "output", "response", "text", "content"}

// ExtractContent pulls the textual payload out of a JSON response body. It
// searches the fixed list of alternative keys on the top-level object, or on
// the first element of a top-level array, and also understands the
// chat-completions choices path. Returns false when nothing usable is found.
func ExtractContent(raw []byte) (string, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false
	}

	switch v := decoded.(type) {
	case map[string]any:
		return contentFromObject(v)
	case []any:
		if len(v) == 0 {
			return "", false
		}
		obj, ok := v[0].(map[string]any)
		if !ok {
			return "", false
		}
		return contentFromObject(obj)
	}
	return "", false
}

func contentFromObject(obj map[string]any) (string, bool) {
	for _, key := range contentKeys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}

	// Chat-completions shape: choices[0].message.content.
	if choices, ok := obj["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if s, ok := message["content"].(string); ok && s != "" {
					return s, true
				}
			}
		}
	}
	return "", false
}
