package mcp

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

	"github.com/claude/repfeed/internal/models"
)

// HTTPClient implements DataSource by calling the RepFeed REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// parsing and storage live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *HTTPClient) parse(ctx context.Context, path string, payload any) (*models.ParsedWorkout, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	var w models.ParsedWorkout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}

func (c *HTTPClient) ParseText(ctx context.Context, text, sourceType string) (*models.ParsedWorkout, error) {
	return c.parse(ctx, "/api/v1/parse/text", map[string]string{"text": text, "sourceType": sourceType})
}

func (c *HTTPClient) ParseVideo(ctx context.Context, videoURL, caption string) (*models.ParsedWorkout, error) {
	return c.parse(ctx, "/api/v1/parse/video", map[string]string{"url": videoURL, "caption": caption})
}

func (c *HTTPClient) ParseCaption(ctx context.Context, postURL, caption string) (*models.ParsedWorkout, error) {
	return c.parse(ctx, "/api/v1/parse/caption", map[string]string{"url": postURL, "caption": caption})
}

func (c *HTTPClient) ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error) {
	params := url.Values{}
	if sourceType != "" {
		params.Set("source", sourceType)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", params, nil)
	if err != nil {
		return nil, err
	}

	var workouts []models.SavedWorkout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return workouts, nil
}
