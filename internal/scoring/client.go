// Package scoring talks to the external image analysis service that measures
// raw quality metrics (sharpness, brightness, glare, skew, dimensions).
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agriverify/internal/config"
	"agriverify/internal/port"
)

// Client implements port.QualityAnalyzer against the analyzer's HTTP API.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates an analyzer client from quality config.
func NewClient(cfg *config.QualityConfig) *Client {
	timeout := time.Duration(cfg.AnalyzerTimeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.AnalyzerEndpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client with a custom http.Client (for testing).
func NewClientWithHTTP(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   httpClient,
	}
}

// Analyze sends the raw image to the analyzer and returns measured metrics.
// A non-200 response means the image could not be measured.
func (c *Client) Analyze(ctx context.Context, image []byte) (*port.QualityMetrics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/analyze", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling analyzer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading analyzer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer error (status %d): %s", resp.StatusCode, string(body))
	}

	var metrics port.QualityMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("unmarshaling analyzer response: %w", err)
	}
	return &metrics, nil
}
