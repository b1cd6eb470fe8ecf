// Package cms is the GraphQL client for the headless WordPress backend.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
)

const slowQueryThreshold = 800 * time.Millisecond

var operationName = regexp.MustCompile(`(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Client posts GraphQL documents to a single endpoint.
type Client struct {
	http     *resty.Client
	endpoint string
	logger   *logging.ChanneledLogger
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "magneto-web/1.0")

	return &Client{
		http:     httpClient,
		endpoint: strings.TrimSpace(endpoint),
		logger:   logger,
	}
}

// Endpoint returns the configured GraphQL URL.
func (c *Client) Endpoint() string { return c.endpoint }

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query runs document and decodes the data envelope into out. out may be
// nil when only success matters.
func (c *Client) Query(ctx context.Context, document string, variables map[string]any, out any) error {
	data, err := c.QueryRaw(ctx, document, variables)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode cms data for %s: %w", OperationName(document), err)
	}
	return nil
}

// QueryRaw runs document and returns the raw data envelope.
func (c *Client) QueryRaw(ctx context.Context, document string, variables map[string]any) (json.RawMessage, error) {
	op := OperationName(document)
	start := time.Now()

	data, err := c.do(ctx, document, variables)
	duration := time.Since(start)

	if err != nil {
		metrics.CMSQueries.WithLabelValues(op, "error").Inc()
		c.logger.LogError(logging.ChannelCMS, op, err, map[string]any{"duration": duration})
		return nil, err
	}

	metrics.CMSQueries.WithLabelValues(op, "ok").Inc()
	opLogger := c.logger.WithOperation(logging.ChannelCMS, op)
	if duration > slowQueryThreshold {
		opLogger.Warn("Slow CMS query", "duration", duration)
	} else {
		opLogger.Debug("CMS query completed", "duration", duration)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, document string, variables map[string]any) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request{Query: document, Variables: variables}).
		Post(c.endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	body := resp.Body()
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if !resp.IsSuccess() {
		if decodeErr == nil && len(env.Errors) > 0 {
			return nil, &StatusError{StatusCode: resp.StatusCode(), Body: joinMessages(env)}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: snippet(body)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, decodeErr)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &GraphQLError{Messages: msgs}
	}
	if len(bytes.TrimSpace(env.Data)) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, ErrMissingData
	}
	return env.Data, nil
}

// ForwardResult is a verbatim CMS response.
type ForwardResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Forward posts body unchanged and returns the CMS response unchanged. It is
// used by the same-origin GraphQL proxy.
func (c *Client) Forward(ctx context.Context, body []byte) (*ForwardResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Err: err}
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return &ForwardResult{
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		Body:        resp.Body(),
	}, nil
}

// Ping runs the cheapest possible query and reports its latency.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := c.Query(ctx, PingQuery, nil, nil)
	return time.Since(start), err
}

// OperationName extracts the operation name of document for logs and metrics.
func OperationName(document string) string {
	if m := operationName.FindStringSubmatch(document); len(m) == 2 {
		return m[1]
	}
	return "anonymous"
}

func joinMessages(env envelope) string {
	msgs := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, " | ")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
