package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the YouTube Data API v3 root.
const DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// VideoMetadata is what the Data API tells us about a video.
type VideoMetadata struct {
	Title           string
	Description     string
	CreatorName     string
	ThumbnailURL    string
	DurationSeconds int
}

// MetadataFetcher looks up rich video metadata by id. A nil result with a nil
// error means metadata is unavailable, e.g. no API key is configured.
type MetadataFetcher interface {
	FetchByID(ctx context.Context, id string) (*VideoMetadata, error)
}

// DataAPIClient implements MetadataFetcher against the YouTube Data API.
type DataAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ MetadataFetcher = (*DataAPIClient)(nil)

// NewDataAPIClient creates a Data API client. An empty baseURL uses
// DefaultAPIBaseURL.
func NewDataAPIClient(apiKey, baseURL string, timeout time.Duration) *DataAPIClient {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &DataAPIClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// thumbnailPreference is the order in which thumbnail sizes are picked.
var thumbnailPreference = []string{"maxres", "standard", "high", "medium", "default"}

// FetchByID calls videos.list for one id. Without an API key it returns
// (nil, nil) and makes no request.
func (c *DataAPIClient) FetchByID(ctx context.Context, id string) (*VideoMetadata, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", id)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: videos %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("youtube: videos %s returned %d: %s", id, resp.StatusCode, body)
	}

	var out videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("youtube: decode videos response: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("youtube: video %s not found", id)
	}

	item := out.Items[0]
	meta := &VideoMetadata{
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		CreatorName:     item.Snippet.ChannelTitle,
		DurationSeconds: parseISODuration(item.ContentDetails.Duration),
	}
	for _, size := range thumbnailPreference {
		if th, ok := item.Snippet.Thumbnails[size]; ok && th.URL != "" {
			meta.ThumbnailURL = th.URL
			break
		}
	}
	return meta, nil
}

// isoDurationRe matches: PT1H2M3S, PT45S, P1DT2H
var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO 8601 duration to seconds, or 0 if it
// cannot be parsed.
func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n := func(i int) int {
		v, _ := strconv.Atoi(m[i])
		return v
	}
	return n(1)*86400 + n(2)*3600 + n(3)*60 + n(4)
}
