// Package remote is the client for the hosted relational backend. It
// speaks a PostgREST-style dialect: table-scoped endpoints, query-param
// filters (`id=eq.X`), and a Prefer header to get inserted rows back.
// Row shapes use the backend's snake_case columns and are converted
// to/from the camelCase domain types at this boundary.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultUserID tags every row until real authentication lands.
const DefaultUserID = "temp-user-123"

// ErrNoRepresentation means an insert asked for the created row back and
// the backend returned an empty set.
var ErrNoRepresentation = errors.New("empty representation returned")

type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, userID string, httpClient *http.Client) *Client {
	if userID == "" {
		userID = DefaultUserID
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userID:     userID,
		httpClient: httpClient,
	}
}

type request struct {
	method string
	table  string
	query  string
	prefer string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, r request) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote."+r.table)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("http.method", r.method),
		attribute.String("table", r.table),
	)

	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, r.table)
	if r.query != "" {
		reqURL += "?" + r.query
	}

	var bodyReader io.Reader
	if r.body != nil {
		bodyBytes, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal %s request body: %w", r.table, err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("new %s request: %w", r.table, err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	log.Tracef("remote call: %s %s", r.method, reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response bytes: %w", r.table, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d: %s", r.method, r.table, resp.StatusCode, respBytes)
	}

	if r.out != nil {
		if err := json.Unmarshal(respBytes, r.out); err != nil {
			return fmt.Errorf("unmarshal %s response bytes: %w", r.table, err)
		}
	}

	return nil
}

func (c *Client) userFilter() string {
	return "user_id=eq." + c.userID
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}
