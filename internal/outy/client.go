package outy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"outy-workers/internal/common/errors"
	commonhttp "outy-workers/internal/common/http"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/metrics"
)

// Options configures a Client.
type Options struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         logger.Logger
}

// Client talks to the Outy REST API on behalf of one bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithHTTP(
		opts.BaseURL,
		opts.Token,
		commonhttp.NewRateLimitedClient(timeout, opts.RateLimitRPS, opts.RateLimitBurst),
		opts.Logger,
	)
}

// NewClientWithHTTP builds a client on a shared transport, so several
// clients (one per acting user) draw from the same rate limit.
func NewClientWithHTTP(baseURL, token string, httpClient *commonhttp.Client, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     logger.OrNop(log).WithFields(map[string]interface{}{"component": "outy-client"}),
	}
}

// WithToken returns a copy of the client that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type request struct {
	method   string
	path     string
	endpoint string // low-cardinality name used for logs and metrics
	query    url.Values
	body     interface{}
	headers  map[string]string
}

// do sends req and returns the raw response body of a 2xx response. Non-2xx
// responses become *APIError; transport failures become StandardErrors.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		jsonData, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", req.endpoint, err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.DoWithContext(ctx, httpReq)
	if err != nil {
		metrics.ObserveAPIRequest(req.endpoint, "error", time.Since(start))
		c.logger.Warn("outy api request failed", map[string]interface{}{
			"endpoint":  req.endpoint,
			"requestId": requestID,
			"error":     err,
		})
		if isTimeout(err) {
			return nil, errors.NewAPITimeoutError(req.endpoint, err)
		}
		return nil, errors.NewAPIError(req.endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.ObserveAPIRequest(req.endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, errors.NewAPIError(req.endpoint, fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug("outy api request", map[string]interface{}{
		"endpoint":   req.endpoint,
		"method":     req.method,
		"status":     resp.StatusCode,
		"requestId":  requestID,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(req.endpoint, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// decodeObject accepts either a bare object or {"data": object}.
func decodeObject(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			return json.Unmarshal(d, out)
		}
	}
	return json.Unmarshal(body, out)
}

// decodeList accepts a bare array or {"data"|"items": array, "total": n}.
// total is zero when the response does not declare one.
func decodeList[T any](body []byte) ([]T, int, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, 0, nil
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, 0, nil
	}

	var env struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
		Total json.Number     `json:"total"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to decode list envelope: %w", err)
	}

	raw := bytes.TrimSpace(env.Items)
	if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '[' {
		raw = d
	}

	var items []T
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode list items: %w", err)
		}
	}

	total := 0
	if env.Total != "" {
		if n, err := env.Total.Int64(); err == nil {
			total = int(n)
		}
	}
	return items, total, nil
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	return q
}
