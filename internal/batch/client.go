package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/repfeed/internal/models"
)

// Client sends text and links to the RepFeed server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the RepFeed server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// ParseText sends free text to /api/v1/parse/text and stores the result.
func (c *Client) ParseText(ctx context.Context, text string) (*models.SavedWorkout, error) {
	return c.send(ctx, "/api/v1/parse/text", map[string]string{"text": text, "sourceType": models.SourceCustom})
}

// ParseLink sends a post URL and caption to the route for its source.
func (c *Client) ParseLink(ctx context.Context, source, url, caption string) (*models.SavedWorkout, error) {
	switch source {
	case models.SourceYouTube:
		return c.send(ctx, "/api/v1/parse/video", map[string]string{"url": url, "caption": caption})
	case models.SourceInstagram:
		return c.send(ctx, "/api/v1/parse/caption", map[string]string{"url": url, "caption": caption})
	}
	return c.ParseText(ctx, caption)
}

// send POSTs payload with ?save=true. Retries up to 3 times with
// exponential backoff on transport errors and 5xx responses.
func (c *Client) send(ctx context.Context, path string, payload any) (*models.SavedWorkout, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path+"?save=true", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
			var saved models.SavedWorkout
			if err := json.Unmarshal(body, &saved); err != nil {
				return nil, fmt.Errorf("decoding response: %w", err)
			}
			return &saved, nil
		case resp.StatusCode < 500:
			return nil, fmt.Errorf("%s rejected (status %d): %s", path, resp.StatusCode, body)
		}
		lastErr = fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, body)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
