package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultOEmbedURL is YouTube's public oEmbed endpoint.
const DefaultOEmbedURL = "https://www.youtube.com/oembed"

// TitleFetcher looks up just the title of a video from its canonical URL.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, canonicalURL string) (string, error)
}

// OEmbedClient implements TitleFetcher with the oEmbed endpoint, which needs
// no credentials.
type OEmbedClient struct {
	endpoint   string
	httpClient *http.Client
}

var _ TitleFetcher = (*OEmbedClient)(nil)

// NewOEmbedClient creates an oEmbed client. An empty endpoint uses
// DefaultOEmbedURL.
func NewOEmbedClient(endpoint string, timeout time.Duration) *OEmbedClient {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}
	return &OEmbedClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTitle returns the video title reported by oEmbed.
func (c *OEmbedClient) FetchTitle(ctx context.Context, canonicalURL string) (string, error) {
	params := url.Values{}
	params.Set("url", canonicalURL)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("oembed: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed: returned %d", resp.StatusCode)
	}

	var out struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("oembed: decode: %w", err)
	}
	return out.Title, nil
}
