package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"autoreview/config"

	"go.uber.org/zap"
)

// Document is a document to create. It must carry a "_type" key.
type Document map[string]interface{}

// Client talks to the hosted content store over its HTTP API.
type Client struct {
	httpClient *http.Client
	queryBase  string
	mutateBase string
	dataset    string
	apiVersion string
	token      string
	logger     *zap.Logger
}

// New builds a client from configuration. It performs no I/O.
func New(conf config.ContentStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiHost := conf.BaseURL
	cdnHost := conf.BaseURL
	if apiHost == "" {
		apiHost = fmt.Sprintf("https://%s.api.sanity.io", conf.ProjectID)
		cdnHost = fmt.Sprintf("https://%s.apicdn.sanity.io", conf.ProjectID)
	}

	queryBase := apiHost
	// The CDN never serves authenticated reads.
	if conf.UseCDN && conf.Token == "" {
		queryBase = cdnHost
	}

	return &Client{
		httpClient: &http.Client{Timeout: conf.Timeout},
		queryBase:  strings.TrimRight(queryBase, "/"),
		mutateBase: strings.TrimRight(apiHost, "/"),
		dataset:    conf.Dataset,
		apiVersion: strings.TrimPrefix(conf.APIVersion, "v"),
		token:      conf.Token,
		logger:     logger,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Fetch runs q and decodes its result into out. A single-document query
// that yields null returns ErrNotFound.
func (c *Client) Fetch(ctx context.Context, q Query, params Params, out interface{}) error {
	values := url.Values{}
	values.Set("query", q.String())
	for name, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.queryBase, c.apiVersion, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build query request: %w", err)
	}

	var resp queryResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}

	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		if q.Single {
			return ErrNotFound
		}
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", q.Type, err)
	}
	return nil
}

// Create stores doc and returns the id the content store assigned to it.
func (c *Client) Create(ctx context.Context, doc Document) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("create %v: no write token configured: %w", doc["_type"], ErrUnauthorized)
	}

	body, err := json.Marshal(map[string]interface{}{
		"mutations": []interface{}{map[string]interface{}{"create": doc}},
	})
	if err != nil {
		return "", fmt.Errorf("encode mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true", c.mutateBase, c.apiVersion, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp mutateResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return "", &APIError{Status: http.StatusOK, Message: "mutation returned no document id"}
	}
	return resp.Results[0].ID, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("content store unreachable", zap.String("method", req.Method), zap.Error(err))
		return fmt.Errorf("content store request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read content store response: %w", err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		c.logger.Warn("content store rejected credentials", zap.Int("status", res.StatusCode))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	case res.StatusCode >= 300:
		return &APIError{Status: res.StatusCode, Message: errorMessage(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode content store response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error.Description != "" {
			return payload.Error.Description
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
