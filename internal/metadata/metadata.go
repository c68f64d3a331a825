// Package metadata fetches enrichment data for collected items from the
// upstream platform APIs. Every client collapses transport, decode, and
// schema failures into ErrFetchFailed; callers decide policy, clients only
// report that the fetch did not produce usable metadata.
package metadata

import (
	"crypto/tls"
	"errors"
	"net/http"
	"time"
)

var (
	// ErrFetchFailed indicates the upstream fetch did not yield usable
	// metadata. The cause is preserved in the wrap chain for logging.
	ErrFetchFailed = errors.New("metadata: fetch failed")
	// ErrNoCredential indicates a required API credential is not configured.
	// It wraps ErrFetchFailed so callers can treat it as an ordinary miss.
	ErrNoCredential = errors.New("metadata: no API credential configured")
)

// PostMetadata carries the fetched fields for a social post.
type PostMetadata struct {
	Text       string
	AuthorName string
}

// PaperMetadata carries the fetched fields for an arXiv paper.
type PaperMetadata struct {
	Title   string
	Summary string
	Authors string
}

// RepoMetadata carries the fetched fields for a GitHub repository.
type RepoMetadata struct {
	FullName    string
	Description string
	Stars       int
	Language    string
	Homepage    string
}

// userAgent identifies this application on outbound requests.
const userAgent = "MindTreeLog/1.0"

// newHTTPClient builds an outbound client with a bounded timeout. TLS
// verification can be disabled per integration for development proxies.
func newHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	client := &http.Client{Timeout: timeout}
	if insecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}
	return client
}
