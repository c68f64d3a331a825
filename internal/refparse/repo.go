package refparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Shorthand owner/repo references: word characters, dot, hyphen, underscore.
var repoShorthandPattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)$`)

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// FullName joins owner and name into the canonical owner/repo key.
// Uniqueness over full names is case-insensitive; the store enforces that.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Repo extracts (owner, repo) from an owner/repo shorthand or a github.com
// URL. URLs with fewer than two path segments are rejected.
func Repo(raw string) (RepoRef, error) {
	trimmed := strings.TrimSpace(raw)

	if matches := repoShorthandPattern.FindStringSubmatch(trimmed); matches != nil {
		return RepoRef{Owner: matches[1], Name: matches[2]}, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: not a repository reference: %q", ErrInvalidReference, trimmed)
	}
	if !strings.Contains(parsed.Host, "github.com") {
		return RepoRef{}, fmt.Errorf("%w: not a github.com URL: %q", ErrInvalidReference, trimmed)
	}

	segments := splitPathSegments(parsed.Path)
	if len(segments) < 2 {
		return RepoRef{}, fmt.Errorf("%w: repository URL missing owner/name: %q", ErrInvalidReference, trimmed)
	}

	return RepoRef{Owner: segments[0], Name: segments[1]}, nil
}
