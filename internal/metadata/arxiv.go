package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultArxivBaseURL = "http://export.arxiv.org"
	arxivFetchTimeout   = 10 * time.Second
)

// ArxivClient fetches paper metadata from the arXiv Atom query API.
// No credential is required.
type ArxivClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ArxivConfig configures an ArxivClient.
type ArxivConfig struct {
	BaseURL            string
	HTTPClient         *http.Client
	InsecureSkipVerify bool
	Logger             *zap.Logger
}

// NewArxivClient constructs the query API client.
func NewArxivClient(cfg ArxivConfig) *ArxivClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultArxivBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(arxivFetchTimeout, cfg.InsecureSkipVerify)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArxivClient{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// PaperInfo fetches title, summary, and authors for an arXiv id. The query
// API must return exactly one entry for the id.
func (c *ArxivClient) PaperInfo(ctx context.Context, arxivID string) (PaperMetadata, error) {
	endpoint := fmt.Sprintf("%s/api/query?id_list=%s&max_results=1", c.baseURL, url.QueryEscape(arxivID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PaperMetadata{}, fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("arxiv request failed", zap.String("arxiv_id", arxivID), zap.Error(err))
		return PaperMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("arxiv returned non-200",
			zap.String("arxiv_id", arxivID),
			zap.Int("status", resp.StatusCode))
		return PaperMetadata{}, fmt.Errorf("%w: arxiv status %d", ErrFetchFailed, resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		c.logger.Warn("arxiv feed decode failed", zap.String("arxiv_id", arxivID), zap.Error(err))
		return PaperMetadata{}, fmt.Errorf("%w: decoding atom feed: %v", ErrFetchFailed, err)
	}
	if len(feed.Entries) != 1 {
		c.logger.Warn("arxiv feed did not contain exactly one entry",
			zap.String("arxiv_id", arxivID),
			zap.Int("entries", len(feed.Entries)))
		return PaperMetadata{}, fmt.Errorf("%w: expected one feed entry, got %d", ErrFetchFailed, len(feed.Entries))
	}

	entry := feed.Entries[0]

	title := collapseWhitespace(entry.Title)
	if title == "" {
		title = "arXiv:" + arxivID
	}

	names := make([]string, 0, len(entry.Authors))
	for _, author := range entry.Authors {
		if name := strings.TrimSpace(author.Name); name != "" {
			names = append(names, name)
		}
	}

	c.logger.Debug("fetched paper", zap.String("arxiv_id", arxivID), zap.String("title", title))
	return PaperMetadata{
		Title:   title,
		Summary: collapseWhitespace(entry.Summary),
		Authors: strings.Join(names, ", "),
	}, nil
}

// collapseWhitespace flattens the hard-wrapped text arXiv feeds carry.
func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
