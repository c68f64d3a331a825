package refparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches https://x.com/handle/status/123 and the twitter.com equivalent.
var postURLPattern = regexp.MustCompile(`(?:x\.com|twitter\.com)/([A-Za-z0-9_]+)/status/(\d+)`)

// PostRef identifies a social post by its numeric id and author handle.
type PostRef struct {
	Handle string
	PostID string
}

// SocialPost extracts the post id and author handle from an X/Twitter status
// URL. There is no bare-identifier fallback: a numeric id alone carries no
// handle, so it is rejected.
func SocialPost(raw string) (PostRef, error) {
	trimmed := strings.TrimSpace(raw)

	if matches := postURLPattern.FindStringSubmatch(trimmed); matches != nil {
		return PostRef{Handle: matches[1], PostID: matches[2]}, nil
	}

	return PostRef{}, fmt.Errorf("%w: not an X/Twitter status URL: %q", ErrInvalidReference, trimmed)
}
