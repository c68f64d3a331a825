package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTwitterBaseURL = "https://api.twitter.com"
	twitterFetchTimeout   = 10 * time.Second

	// maxPostTextLength bounds the stored post text; longer text is
	// truncated to 497 characters plus an ellipsis.
	maxPostTextLength = 500
)

// TwitterClient fetches post metadata from the v2 API. A bearer token is
// required; without one every fetch reports ErrNoCredential so callers can
// fall back to placeholder data.
type TwitterClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// TwitterConfig configures a TwitterClient.
type TwitterConfig struct {
	BaseURL            string
	BearerToken        string
	HTTPClient         *http.Client
	InsecureSkipVerify bool
	Logger             *zap.Logger
}

// NewTwitterClient constructs the v2 API client.
func NewTwitterClient(cfg TwitterConfig) *TwitterClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(twitterFetchTimeout, cfg.InsecureSkipVerify)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS verification disabled for Twitter API")
	}
	return &TwitterClient{
		baseURL:     baseURL,
		bearerToken: cfg.BearerToken,
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(rate.Limit(1), 1),
		logger:      logger,
	}
}

type tweetResponse struct {
	Data *struct {
		Text string `json:"text"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			Name string `json:"name"`
		} `json:"users"`
	} `json:"includes"`
}

// PostInfo fetches the text and author display name for a post. The author
// handle is the fallback display name when the expansion is absent.
func (c *TwitterClient) PostInfo(ctx context.Context, postID, authorHandle string) (PostMetadata, error) {
	if c.bearerToken == "" {
		c.logger.Info("no Twitter bearer token configured, skipping fetch", zap.String("post_id", postID))
		return PostMetadata{}, fmt.Errorf("%w: %w", ErrFetchFailed, ErrNoCredential)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return PostMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	endpoint := fmt.Sprintf(
		"%s/2/tweets/%s?tweet.fields=text,author_id&expansions=author_id&user.fields=name,username",
		c.baseURL, postID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PostMetadata{}, fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("twitter request failed", zap.String("post_id", postID), zap.Error(err))
		return PostMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logNon200(postID, resp.StatusCode)
		return PostMetadata{}, fmt.Errorf("%w: twitter status %d", ErrFetchFailed, resp.StatusCode)
	}

	var payload tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("twitter decode failed", zap.String("post_id", postID), zap.Error(err))
		return PostMetadata{}, fmt.Errorf("%w: decoding tweet response: %v", ErrFetchFailed, err)
	}
	if payload.Data == nil {
		c.logger.Warn("twitter response missing data payload", zap.String("post_id", postID))
		return PostMetadata{}, fmt.Errorf("%w: tweet response missing data payload", ErrFetchFailed)
	}

	text := payload.Data.Text
	if utf8.RuneCountInString(text) > maxPostTextLength {
		text = string([]rune(text)[:maxPostTextLength-3]) + "..."
	}

	authorName := authorHandle
	if len(payload.Includes.Users) > 0 && payload.Includes.Users[0].Name != "" {
		authorName = payload.Includes.Users[0].Name
	}

	c.logger.Debug("fetched post", zap.String("post_id", postID), zap.String("author", authorName))
	return PostMetadata{Text: text, AuthorName: authorName}, nil
}

// logNon200 keeps the operator-facing distinctions between auth failures and
// rate limiting; callers see the same fetch failure regardless.
func (c *TwitterClient) logNon200(postID string, status int) {
	fields := []zap.Field{zap.String("post_id", postID), zap.Int("status", status)}
	switch status {
	case http.StatusUnauthorized:
		c.logger.Warn("twitter authentication failed, check the bearer token", fields...)
	case http.StatusForbidden:
		c.logger.Warn("twitter access forbidden, app may lack required permissions", fields...)
	case http.StatusTooManyRequests:
		c.logger.Warn("twitter rate limit exceeded", fields...)
	default:
		c.logger.Warn("twitter returned non-200", fields...)
	}
}
