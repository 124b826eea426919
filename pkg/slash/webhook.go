package slash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slashkit/pkg/retryhttp"
)

// Webhook timeout bounds. A definition may ask for any timeout; execution
// clamps it into this window so an invocation can never hang indefinitely.
const (
	minWebhookTimeout = 1 * time.Second
	maxWebhookTimeout = 30 * time.Second
	defWebhookTimeout = 10 * time.Second
)

// WebhookClient performs the inline HTTP call of webhook actions. It is the
// engine's only suspension point and its only direct contact with the
// outside world.
type WebhookClient struct {
	client *retryhttp.Client
}

// NewWebhookClient returns a client limited to rps outbound requests per
// second across all invocations.
func NewWebhookClient(rps float64) *WebhookClient {
	return &WebhookClient{client: retryhttp.New(rps)}
}

// Call performs the webhook request with headers and body interpolated from
// bindings, and returns the message extracted from the JSON response via the
// action's dotted ResponsePath (or the raw body when no path is set).
func (w *WebhookClient) Call(ctx context.Context, action *WebhookAction, bindings map[string]string) (string, error) {
	timeout := defWebhookTimeout
	if action.TimeoutMS > 0 {
		timeout = time.Duration(action.TimeoutMS) * time.Millisecond
	}
	if timeout < minWebhookTimeout {
		timeout = minWebhookTimeout
	}
	if timeout > maxWebhookTimeout {
		timeout = maxWebhookTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := strings.ToUpper(action.Method)
	if method == "" {
		method = http.MethodPost
	}
	body := Interpolate(action.Body, bindings)

	build := func() (*http.Request, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, action.URL, reader)
		if err != nil {
			return nil, err
		}
		if body != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range action.Headers {
			req.Header.Set(k, Interpolate(v, bindings))
		}
		return req, nil
	}

	cfg := retryhttp.DefaultConfig()
	cfg.MaxAttempts = action.Retries + 1

	resp, err := w.client.Do(ctx, build, cfg)
	if err != nil {
		return "", fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("webhook response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned http %d", resp.StatusCode)
	}

	if action.ResponsePath == "" {
		return strings.TrimSpace(string(raw)), nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("webhook response is not JSON: %w", err)
	}
	value, ok := lookupPath(doc, action.ResponsePath)
	if !ok {
		return "", fmt.Errorf("webhook response has no field %q", action.ResponsePath)
	}
	return formatValue(value), nil
}

// lookupPath walks a decoded JSON document by a dotted path like
// "data.result.message".
func lookupPath(doc any, path string) (any, bool) {
	cur := doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
