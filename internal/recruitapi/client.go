// internal/recruitapi/client.go
package recruitapi

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
	"time"

	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/errors"
	httpclient "recruit-screening/internal/common/http"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorExcerpt = 512

// Client talks to the recruitment platform REST API on behalf of one session.
type Client struct {
	baseURL string
	http    *httpclient.Client
	session *session.Session
	tracer  trace.Tracer
	logger  logger.Logger
}

// NewClient builds a client. tracer may be nil.
func NewClient(cfg config.APIConfig, sess *session.Session, tracer trace.Tracer, log logger.Logger) *Client {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if tracer == nil {
		tracer = otel.Tracer("recruitapi")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpclient.NewClient(timeout).WithRateLimit(cfg.RateLimit, cfg.Burst),
		session: sess,
		tracer:  tracer,
		logger:  log.WithFields(map[string]interface{}{"component": "recruitapi"}),
	}
}

// WithSession returns a copy of c bound to another session.
func (c *Client) WithSession(sess *session.Session) *Client {
	clone := *c
	clone.session = sess
	return &clone
}

// WithTransport routes requests through rt. Call it before sharing the
// client; sessions derived with WithSession use the same transport.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.http.WithTransport(rt)
	return c
}

type request struct {
	method   string
	path     string
	endpoint string // low-cardinality label for metrics and spans
	query    url.Values
	body     interface{}
}

// do sends req and decodes a 2xx body into out. Without a token nothing is sent.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	token, err := c.session.Bearer()
	if err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, req.method+" "+req.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		))
	defer span.End()

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return errors.NewValidationError("request body could not be encoded", err.Error())
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return errors.NewAPIRequestFailedError(req.method, req.path, 0, err.Error())
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.DoWithContext(ctx, httpReq)
	if err != nil {
		metrics.APIRequests.WithLabelValues(req.method, req.endpoint, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.NewAPIRequestFailedError(req.method, req.path, 0, err.Error())
	}
	defer resp.Body.Close()

	metrics.APIRequests.WithLabelValues(req.method, req.endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		span.SetStatus(codes.Error, "unauthorized")
		return errors.NewAuthenticationMissingError("token rejected by " + req.endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		span.SetStatus(codes.Error, resp.Status)
		c.logger.Warn("api request failed", map[string]interface{}{
			"method": req.method,
			"path":   req.path,
			"status": resp.StatusCode,
		})
		return errors.NewAPIRequestFailedError(req.method, req.path, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAPIRequestFailedError(req.method, req.path, resp.StatusCode, err.Error())
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.NewMalformedResponseError(req.path, fmt.Errorf("empty body"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewMalformedResponseError(req.path, err)
	}
	return nil
}

// degrade logs a malformed list response that is replaced by a safe default.
func (c *Client) degrade(endpoint string, err error) {
	metrics.MalformedResponses.WithLabelValues(endpoint).Inc()
	c.logger.Warn("malformed response, using empty result", map[string]interface{}{
		"endpoint": endpoint,
		"error":    err,
	})
}

func isMalformed(err error) bool {
	stdErr := errors.AsStandard(err)
	return stdErr.Code == errors.ErrCodeMalformedResponse
}
