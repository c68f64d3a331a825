package refparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns for the recognized YouTube URL shapes. Order matters: the strict
// watch/short/embed shapes are tried before the loose query-parameter form.
var (
	videoURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([A-Za-z0-9_-]{11})`),
	}
	bareVideoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// Video extracts the 11-character video identifier from a YouTube URL.
// Inputs that are themselves exactly an 11-character identifier are accepted
// verbatim.
func Video(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	for _, pattern := range videoURLPatterns {
		if matches := pattern.FindStringSubmatch(trimmed); matches != nil {
			return matches[1], nil
		}
	}

	if bareVideoIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	return "", fmt.Errorf("%w: not a YouTube URL or video id: %q", ErrInvalidReference, trimmed)
}
