package refparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// arXiv identifiers in the modern numbering scheme, with an optional version
// suffix (e.g. 2403.12345 or 2403.12345v2).
var arxivIDPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)

// Preprint extracts the arXiv identifier from a bare id or an abs/pdf URL.
func Preprint(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if arxivIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: not an arXiv id or URL: %q", ErrInvalidReference, trimmed)
	}
	if !strings.Contains(parsed.Host, "arxiv.org") {
		return "", fmt.Errorf("%w: not an arxiv.org URL: %q", ErrInvalidReference, trimmed)
	}

	segments := splitPathSegments(parsed.Path)
	if len(segments) < 2 || (segments[0] != "abs" && segments[0] != "pdf") {
		return "", fmt.Errorf("%w: unsupported arXiv URL path: %q", ErrInvalidReference, trimmed)
	}

	id := strings.TrimSuffix(segments[1], ".pdf")
	if !arxivIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: malformed arXiv id %q in URL", ErrInvalidReference, id)
	}

	return id, nil
}

// splitPathSegments returns the non-empty segments of a URL path.
func splitPathSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
