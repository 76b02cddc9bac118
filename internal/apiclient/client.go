// Package apiclient talks to the promotions HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"promo-admin/internal/model"
	"promo-admin/internal/query"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	promotionsPath = "/api/promotions"
	giftsPath      = "/api/gifts"
	tracerName     = "promo-admin/apiclient"
)

// Error is the single failure kind surfaced by the client. Its message is
// meant to be shown to the user as is.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is a traced client for the promotions API.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "api-client").Logger()
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		// No Timeout: every call is bounded by the caller's context.
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
			},
		},
		tracer: otel.Tracer(tracerName),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPromotions fetches one page of promotions.
func (c *Client) ListPromotions(ctx context.Context, params query.Params) ([]model.Promotion, error) {
	var out []model.Promotion
	if err := c.do(ctx, "list promotions", http.MethodGet, promotionsPath, params.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Promotion{}
	}
	return out, nil
}

// createBody shadows the embedded ID so a draft is posted without one.
type createBody struct {
	model.Promotion
	ID *int64 `json:"id,omitempty"`
}

// CreatePromotion creates p and returns the stored promotion with its ID.
func (c *Client) CreatePromotion(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	var out model.Promotion
	if err := c.do(ctx, "create promotion", http.MethodPost, promotionsPath, nil, createBody{Promotion: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePromotion replaces the promotion with the given ID.
func (c *Client) UpdatePromotion(ctx context.Context, id int64, p model.Promotion) (*model.Promotion, error) {
	p.ID = id
	var out model.Promotion
	if err := c.do(ctx, "update promotion", http.MethodPut, promotionPath(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePromotion deletes the promotion and returns the deleted ID.
func (c *Client) DeletePromotion(ctx context.Context, id int64) (int64, error) {
	var out model.DeleteResponse
	if err := c.do(ctx, "delete promotion", http.MethodDelete, promotionPath(id), nil, nil, &out); err != nil {
		return 0, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return out.ID, nil
}

// ListGifts fetches the gifts a promotion can hand out.
func (c *Client) ListGifts(ctx context.Context) ([]model.Gift, error) {
	var out []model.Gift
	if err := c.do(ctx, "list gifts", http.MethodGet, giftsPath, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Gift{}
	}
	return out, nil
}

func promotionPath(id int64) string {
	return promotionsPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out interface{}) error {
	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	if params != nil {
		target.RawQuery = params.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "promotions-api "+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target.String()),
	)

	fail := func(status int, reason string, err error) error {
		apiErr := &Error{
			Op:         op,
			StatusCode: status,
			Message:    fmt.Sprintf("failed to %s: %s", op, reason),
			Err:        err,
		}
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Warn().
			Str("op", op).
			Str("method", method).
			Str("url", target.String()).
			Int("status", status).
			Err(err).
			Msg("promotions API call failed")
		return apiErr
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, "could not encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fail(0, "could not build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err.Error(), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := fmt.Sprintf("server returned %s", resp.Status)
		var errBody model.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			switch {
			case errBody.Message != "":
				reason = errBody.Message
			case errBody.Error != "":
				reason = errBody.Error
			}
		}
		return fail(resp.StatusCode, reason, nil)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fail(resp.StatusCode, "invalid response body", err)
	}

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Msg("promotions API call succeeded")
	return nil
}
