package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRepoInfoMapsResponseFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Fatalf("missing accept header")
		}
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{
			"full_name": "owner/repo",
			"description": "a thing",
			"stargazers_count": 42,
			"language": "Go",
			"homepage": "https://example.com"
		}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewGitHubClient(GitHubConfig{BaseURL: server.URL, Token: "gh-token"})

	info, err := client.RepoInfo(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FullName != "owner/repo" {
		t.Fatalf("unexpected full name %q", info.FullName)
	}
	if info.Description != "a thing" || info.Stars != 42 || info.Language != "Go" || info.Homepage != "https://example.com" {
		t.Fatalf("unexpected metadata %+v", info)
	}
}

func TestRepoInfoDefaultsOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("expected unauthenticated request")
		}
		w.Write([]byte(`{"full_name":"owner/repo","description":null,"language":null,"homepage":null}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewGitHubClient(GitHubConfig{BaseURL: server.URL})

	info, err := client.RepoInfo(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Description != "" || info.Stars != 0 || info.Language != "" || info.Homepage != "" {
		t.Fatalf("expected zero-valued optional fields, got %+v", info)
	}
}

func TestRepoInfoFailsOnNon200(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewGitHubClient(GitHubConfig{BaseURL: server.URL})

		if _, err := client.RepoInfo(context.Background(), "owner", "repo"); !errors.Is(err, ErrFetchFailed) {
			t.Fatalf("status %d: expected ErrFetchFailed, got %v", status, err)
		}
		server.Close()
	}
}

func TestRepoInfoFailsOnMissingFullName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"description":"no name"}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewGitHubClient(GitHubConfig{BaseURL: server.URL})

	if _, err := client.RepoInfo(context.Background(), "owner", "repo"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
