package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultEndpoint is the local address of the prediction collaborator.
const DefaultEndpoint = "http://127.0.0.1:5000/predict"

// RequestIDHeader carries the submission id to the collaborator.
const RequestIDHeader = "X-Request-ID"

var (
	// ErrTransport wraps failures to reach the collaborator.
	ErrTransport = errors.New("predict: transport")
	// ErrDecode wraps bodies that are not a usable JSON prediction.
	ErrDecode = errors.New("predict: decode")
)

// Request is one submission of the serialized form.
type Request struct {
	ID     string
	Fields map[string]string
}

// Result is the collaborator's answer. When Error is non-empty the other
// fields are meaningless.
type Result struct {
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Currency   string  `json:"currency,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Rejected reports whether the collaborator answered with an error message.
func (r Result) Rejected() bool {
	return r.Error != ""
}

// Predictor is the seam the submission controller depends on.
type Predictor interface {
	Predict(ctx context.Context, req Request) (Result, error)
}

// Client posts form data to the collaborator over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	contract   *Contract
}

var _ Predictor = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithHTTPClient swaps the HTTP client used for the request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithContractValidation checks outgoing and incoming bodies against the
// collaborator's schemas.
func WithContractValidation(contract *Contract) Option {
	return func(c *Client) {
		c.contract = contract
	}
}

// NewClient constructs a Client. Without options it targets DefaultEndpoint
// using a client with no timeout.
func NewClient(options ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Endpoint reports the target URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict sends one POST and decodes the answer. The body is decoded whatever
// the HTTP status, since the collaborator reports rejections as {"error": ...}
// alongside 4xx/5xx codes. A returned error always wraps ErrTransport,
// ErrDecode or ErrContract.
func (c *Client) Predict(ctx context.Context, req Request) (Result, error) {
	if c.contract != nil {
		if err := c.contract.ValidateRequest(req.Fields); err != nil {
			return Result{}, err
		}
	}

	payload, err := json.Marshal(req.Fields)
	if err != nil {
		return Result{}, fmt.Errorf("%w: encode request: %v", ErrDecode, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set(RequestIDHeader, req.ID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return c.decode(body, resp.StatusCode)
}

type wireResult struct {
	Price      *float64        `json:"price"`
	Confidence *float64        `json:"confidence"`
	Currency   string          `json:"currency"`
	Error      json.RawMessage `json:"error"`
}

func (c *Client) decode(body []byte, status int) (Result, error) {
	if c.contract != nil {
		var generic map[string]any
		if err := json.Unmarshal(body, &generic); err != nil {
			return Result{}, fmt.Errorf("%w: status %d: %v", ErrDecode, status, err)
		}
		if err := c.contract.ValidateResponse(generic); err != nil {
			return Result{}, err
		}
	}

	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return Result{}, fmt.Errorf("%w: status %d: %v", ErrDecode, status, err)
	}
	if msg, ok := errorText(wire.Error); ok {
		return Result{Error: msg}, nil
	}
	if wire.Price == nil || wire.Confidence == nil {
		return Result{}, fmt.Errorf("%w: status %d: price and confidence are required", ErrDecode, status)
	}
	return Result{
		Price:      *wire.Price,
		Confidence: *wire.Confidence,
		Currency:   wire.Currency,
	}, nil
}

// errorText reports whether an "error" member is set, using JavaScript
// truthiness: null, false, 0 and "" mean no error. Non-string values are
// reported as their compact JSON text.
func errorText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return "", false
	}
	switch val := v.(type) {
	case nil:
		return "", false
	case bool:
		if !val {
			return "", false
		}
	case float64:
		if val == 0 {
			return "", false
		}
	case string:
		return val, val != ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed), true
	}
	return compact.String(), true
}
