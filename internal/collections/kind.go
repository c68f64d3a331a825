package collections

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the supported collection kinds. The set is closed: every
// dispatch over kinds is an exhaustive switch rather than a lookup table.
type Kind string

const (
	// KindYouTube collects YouTube videos keyed by the 11-character video id.
	KindYouTube Kind = "youtube"
	// KindTwitter collects X/Twitter posts keyed by the numeric post id.
	KindTwitter Kind = "twitter"
	// KindArxiv collects arXiv papers keyed by the arXiv identifier.
	KindArxiv Kind = "arxiv"
	// KindGitHub collects GitHub repositories keyed by owner/repo.
	KindGitHub Kind = "github"
)

// Kinds lists every collection kind in presentation order.
var Kinds = []Kind{KindYouTube, KindTwitter, KindArxiv, KindGitHub}

// ErrUnknownKind indicates a kind tag outside the closed set.
var ErrUnknownKind = errors.New("collections: unknown collection kind")

// ParseKind validates a kind tag from an inbound request path.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindYouTube:
		return KindYouTube, nil
	case KindTwitter:
		return KindTwitter, nil
	case KindArxiv:
		return KindArxiv, nil
	case KindGitHub:
		return KindGitHub, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// String returns the kind tag.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns the platform name used in user-facing notices.
func (k Kind) DisplayName() string {
	switch k {
	case KindYouTube:
		return "YouTube"
	case KindTwitter:
		return "Twitter/X"
	case KindArxiv:
		return "arXiv"
	case KindGitHub:
		return "GitHub"
	default:
		return string(k)
	}
}
