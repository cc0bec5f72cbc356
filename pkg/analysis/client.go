package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Anything that can analyse a position
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Response, error)
}

// HTTP client of the remote analysis engine
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

var _ Analyzer = (*Client)(nil)

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze posts the request to <base>/analysis and decodes the reply. The
// request is validated before anything is sent.
func (c *Client) Analyze(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("analysis: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analysis", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("analysis: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	c.log.Debug("analysis request",
		zap.String("position", req.Position),
		zap.Int("depth", req.Depth),
		zap.Int("multipv", req.MultiPv))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("analysis: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("analysis request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", msg))
		return Response{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	result, err := Decode(resp.Body)
	if err != nil {
		c.log.Warn("malformed analysis response", zap.Error(err))
		return Response{}, err
	}

	c.log.Debug("analysis response",
		zap.Int("lines", len(result.Lines)),
		zap.Int("depth", result.Depth),
		zap.Uint64("nodes", result.Nodes),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

// Non 200 reply of the engine
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis: unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("analysis: unexpected status code: %d: %s", e.Code, e.Body)
}
