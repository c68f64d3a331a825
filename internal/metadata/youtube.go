package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	defaultYouTubeBaseURL = "https://www.youtube.com"
	youtubeFetchTimeout   = 5 * time.Second
)

// YouTubeClient fetches video metadata from the public oEmbed endpoint.
// No credential is required.
type YouTubeClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// YouTubeConfig configures a YouTubeClient. Zero values select the public
// endpoint, a 5 second timeout, and a no-op logger.
type YouTubeConfig struct {
	BaseURL            string
	HTTPClient         *http.Client
	InsecureSkipVerify bool
	Logger             *zap.Logger
}

// NewYouTubeClient constructs the oEmbed client.
func NewYouTubeClient(cfg YouTubeConfig) *YouTubeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(youtubeFetchTimeout, cfg.InsecureSkipVerify)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YouTubeClient{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type oembedResponse struct {
	Title string `json:"title"`
}

// VideoTitle fetches the title for a video id.
func (c *YouTubeClient) VideoTitle(ctx context.Context, videoID string) (string, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	endpoint := fmt.Sprintf("%s/oembed?url=%s&format=json", c.baseURL, url.QueryEscape(watchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("youtube oembed request failed", zap.String("video_id", videoID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("youtube oembed returned non-200",
			zap.String("video_id", videoID),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: youtube oembed status %d", ErrFetchFailed, resp.StatusCode)
	}

	var payload oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("youtube oembed decode failed", zap.String("video_id", videoID), zap.Error(err))
		return "", fmt.Errorf("%w: decoding oembed response: %v", ErrFetchFailed, err)
	}
	if payload.Title == "" {
		return "", fmt.Errorf("%w: oembed response missing title", ErrFetchFailed)
	}

	c.logger.Debug("fetched video title", zap.String("video_id", videoID), zap.String("title", payload.Title))
	return payload.Title, nil
}
