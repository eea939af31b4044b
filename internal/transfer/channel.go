// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transfer performs the HTTP round trip to the processing service.
//
// Every response is read as raw bytes: successes are PDF or audio, while
// failures are JSON that arrives through the same binary path. The channel
// detects the failure case from the status code and reinterprets the bytes
// as a JSON error envelope so callers only ever see a types.TransferResult.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

const (
	defaultBaseURL   = "http://localhost:5000"
	defaultUserAgent = "pdf-utilizer/dev"

	// DefaultFailureMessage is used when a failed response carries no
	// readable message and the caller supplied no fallback.
	DefaultFailureMessage = "Unknown error"

	// serverErrorMessage is used when the error envelope parses but is empty.
	serverErrorMessage = "Server error"

	// requestFailedMessage is used when the transport error has no text.
	requestFailedMessage = "Request failed"
)

// Request is one round trip.
type Request struct {
	// Endpoint is resolved against the base URL (e.g. "pdf/merge").
	Endpoint string
	Payload  Payload
	// FailureMessage is shown when a failed response cannot be decoded.
	FailureMessage string
}

// Option customizes a Channel.
type Option func(*Channel)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Channel) {
		if c != nil {
			ch.http = c
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(ch *Channel) {
		if l != nil {
			ch.logger = l
		}
	}
}

// Channel sends requests to the processing service.
type Channel struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// New creates a Channel from the service configuration.
func New(cfg types.ServiceConfig, opts ...Option) (*Channel, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("transfer: parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("transfer: base url %q must be absolute", base)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	ch := &Channel{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch, nil
}

// Send posts payload to endpoint with the default failure message.
func (c *Channel) Send(ctx context.Context, endpoint string, payload Payload) types.TransferResult {
	return c.Do(ctx, Request{Endpoint: endpoint, Payload: payload})
}

// Do performs one round trip and normalizes the outcome. It never returns
// a Go error: every failure is folded into the result.
func (c *Channel) Do(ctx context.Context, req Request) types.TransferResult {
	fallback := req.FailureMessage
	if fallback == "" {
		fallback = DefaultFailureMessage
	}
	log := c.logger.With(zap.String("endpoint", req.Endpoint))

	endpoint := c.baseURL.JoinPath(req.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(req.Payload.Body))
	if err != nil {
		return c.fail(log, &types.Error{Kind: types.KindUnknown, Message: fallback, Err: fmt.Errorf("building request: %w", err)})
	}
	if req.Payload.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.Payload.ContentType)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "*/*")

	log.Debug("sending request", zap.Int("bytes", len(req.Payload.Body)), zap.String("content_type", req.Payload.ContentType))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.fail(log, transportError(err))
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if readErr != nil {
			return c.fail(log, &types.Error{Kind: types.KindTransport, Message: fallback, Status: resp.StatusCode, Err: readErr})
		}
		return c.fail(log, NormalizeFailure(resp.StatusCode, body, fallback))
	}

	if readErr != nil {
		return c.fail(log, &types.Error{Kind: types.KindUnknown, Message: fallback, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", readErr)})
	}
	if len(body) == 0 {
		return c.fail(log, &types.Error{Kind: types.KindUnknown, Message: fallback, Status: resp.StatusCode, Err: errors.New("empty response body")})
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	log.Debug("request succeeded", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)), zap.String("content_type", contentType))

	return types.Succeeded(types.Payload{
		ContentType: contentType,
		Bytes:       body,
		Header:      resp.Header.Clone(),
	})
}

func (c *Channel) fail(log *zap.Logger, e *types.Error) types.TransferResult {
	fields := []zap.Field{zap.String("kind", string(e.Kind)), zap.String("message", e.Message)}
	if e.Status > 0 {
		fields = append(fields, zap.Int("status", e.Status))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	log.Warn("request failed", fields...)
	return types.Failed(e)
}

// errorEnvelope is the JSON body the service sends with non-2xx statuses.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NormalizeFailure interprets the raw bytes of a failed response. A JSON
// envelope yields a KindService error with the envelope's message verbatim;
// anything undecodable yields a KindTransport error carrying fallback.
func NormalizeFailure(status int, body []byte, fallback string) *types.Error {
	if fallback == "" {
		fallback = DefaultFailureMessage
	}

	text := strings.TrimSpace(strings.ToValidUTF8(string(body), "�"))
	if text == "" {
		return &types.Error{Kind: types.KindTransport, Message: fallback, Status: status}
	}

	var env errorEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return &types.Error{
			Kind:    types.KindTransport,
			Message: fallback,
			Status:  status,
			Err:     fmt.Errorf("decoding error body: %w", err),
		}
	}

	msg := strings.TrimSpace(env.Error)
	if msg == "" {
		msg = strings.TrimSpace(env.Message)
	}
	if msg == "" {
		msg = serverErrorMessage
	}
	return &types.Error{Kind: types.KindService, Message: msg, Status: status}
}

func transportError(err error) *types.Error {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = requestFailedMessage
	}
	return &types.Error{Kind: types.KindTransport, Message: msg, Err: err}
}
