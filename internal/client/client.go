// Package client calls the consumption endpoints over HTTP, the way the
// dashboard does.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/prompted/hrconsume/internal/httpx"
	"github.com/prompted/hrconsume/internal/models"
)

// APIError is a non-2xx answer from the consumption service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("consumption api: %d %s", e.Status, e.Message)
}

// Client queries one consumption service.
type Client struct {
	baseURL string
	http    *httpx.Client
}

// New creates a Client for the service at baseURL (e.g.
// "http://localhost:4000").
func New(baseURL string, hc *httpx.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Query calls GET /consumption/{endpoint} with params and decodes the rows.
func (c *Client) Query(ctx context.Context, endpoint string, params url.Values) ([]models.Row, error) {
	u := c.baseURL + "/consumption/" + url.PathEscape(endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	var rows []models.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", endpoint, err)
	}
	return rows, nil
}
