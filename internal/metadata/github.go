package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultGitHubBaseURL = "https://api.github.com"
	githubFetchTimeout   = 10 * time.Second
)

// GitHubClient fetches repository metadata from the REST API. A token is
// optional; unauthenticated requests are subject to the platform's low
// anonymous rate limits.
type GitHubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// GitHubConfig configures a GitHubClient.
type GitHubConfig struct {
	BaseURL            string
	Token              string
	HTTPClient         *http.Client
	InsecureSkipVerify bool
	Logger             *zap.Logger
}

// NewGitHubClient constructs the REST API client.
func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGitHubBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(githubFetchTimeout, cfg.InsecureSkipVerify)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitHubClient{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		logger:     logger,
	}
}

type repoResponse struct {
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
	Homepage        string `json:"homepage"`
}

// RepoInfo fetches metadata for owner/repo.
func (c *GitHubClient) RepoInfo(ctx context.Context, owner, repo string) (RepoMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return RepoMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RepoMetadata{}, fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("github request failed",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return RepoMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logNon200(owner+"/"+repo, resp)
		return RepoMetadata{}, fmt.Errorf("%w: github status %d", ErrFetchFailed, resp.StatusCode)
	}

	var payload repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("github decode failed",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return RepoMetadata{}, fmt.Errorf("%w: decoding repo response: %v", ErrFetchFailed, err)
	}
	if payload.FullName == "" {
		return RepoMetadata{}, fmt.Errorf("%w: repo response missing full_name", ErrFetchFailed)
	}

	c.logger.Debug("fetched repo", zap.String("full_name", payload.FullName), zap.Int("stars", payload.StargazersCount))
	return RepoMetadata{
		FullName:    payload.FullName,
		Description: payload.Description,
		Stars:       payload.StargazersCount,
		Language:    payload.Language,
		Homepage:    payload.Homepage,
	}, nil
}

func (c *GitHubClient) logNon200(fullName string, resp *http.Response) {
	fields := []zap.Field{zap.String("repo", fullName), zap.Int("status", resp.StatusCode)}
	switch resp.StatusCode {
	case http.StatusNotFound:
		c.logger.Warn("github repository not found", fields...)
	case http.StatusUnauthorized, http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			c.logger.Warn("github rate limit exceeded", fields...)
		} else {
			c.logger.Warn("github authentication failed", fields...)
		}
	case http.StatusTooManyRequests:
		c.logger.Warn("github rate limit exceeded", fields...)
	default:
		c.logger.Warn("github returned non-200", fields...)
	}
}
