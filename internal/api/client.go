package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bz888/medirag/internal/logger"
	"github.com/google/uuid"
)

const (
	queryPath       = "/query"
	requestIDHeader = "X-Request-ID"
)

// Querier sends one question to the answer backend.
type Querier interface {
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}

// Client talks to the MediRAG HTTP API.
type Client struct {
	queryURL string
	http     *http.Client
	log      *logger.Logger
}

// NewClient builds a client for the API rooted at baseURL. A nil httpClient
// means a plain client without timeout; a query waits until the backend
// replies or the context ends.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse api url: %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		queryURL: base.JoinPath(queryPath).String(),
		http:     httpClient,
		log:      logger.NewLogger("api client"),
	}, nil
}

func (c *Client) QueryURL() string {
	return c.queryURL
}

// Query posts the question and decodes the answer. Failures are returned as
// *TransportError or *StatusError.
func (c *Client) Query(ctx context.Context, query QueryRequest) (*QueryResponse, error) {
	requestData, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(requestData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	c.log.Infow("Sending query", "request_id", requestID, "model", query.Model)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Errorw("Failed to send request", "request_id", requestID, "error", err)
		return nil, &TransportError{Op: "send request", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("Failed to close response body: ", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			c.log.Warn("Failed to decode error response: ", err)
		}
		c.log.Errorw("Query rejected", "request_id", requestID, "status", resp.StatusCode, "detail", errResp.Detail)
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: errResp.Detail}
	}

	var queryResp QueryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}

	c.log.Infow("Query answered", "request_id", requestID, "model_used", queryResp.ModelUsed)
	return &queryResp, nil
}
