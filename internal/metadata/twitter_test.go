package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPostInfoReturnsTextAndAuthorName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/tweets/1234567890" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		query := r.URL.Query()
		if query.Get("expansions") != "author_id" {
			t.Fatalf("expected author_id expansion, got %q", query.Get("expansions"))
		}
		w.Write([]byte(`{"data":{"text":"hello world"},"includes":{"users":[{"name":"Some One"}]}}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

	info, err := client.PostInfo(context.Background(), "1234567890", "someone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Text != "hello world" {
		t.Fatalf("unexpected text %q", info.Text)
	}
	if info.AuthorName != "Some One" {
		t.Fatalf("unexpected author name %q", info.AuthorName)
	}
}

func TestPostInfoDefaultsAuthorNameToHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"text":"hello world"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

	info, err := client.PostInfo(context.Background(), "1234567890", "someone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.AuthorName != "someone" {
		t.Fatalf("expected handle fallback, got %q", info.AuthorName)
	}
}

func TestPostInfoTruncatesLongText(t *testing.T) {
	longText := strings.Repeat("a", 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":{"text":"%s"}}`, longText)
	}))
	defer server.Close()

	client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

	info, err := client.PostInfo(context.Background(), "1234567890", "someone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Text) != 500 {
		t.Fatalf("expected text length 500, got %d", len(info.Text))
	}
	if info.Text != strings.Repeat("a", 497)+"..." {
		t.Fatalf("unexpected truncated text tail %q", info.Text[490:])
	}
}

func TestPostInfoTruncationCountsCharactersNotBytes(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			// 300 characters but 600 bytes: under the limit, stored untouched.
			name: "multibyte text under limit is untouched",
			text: strings.Repeat("é", 300),
			want: strings.Repeat("é", 300),
		},
		{
			name: "multibyte text over limit truncates whole characters",
			text: strings.Repeat("é", 600),
			want: strings.Repeat("é", 497) + "...",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"data":{"text":"%s"}}`, testCase.text)
			}))
			defer server.Close()

			client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

			info, err := client.PostInfo(context.Background(), "1234567890", "someone")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !utf8.ValidString(info.Text) {
				t.Fatalf("stored text is not valid UTF-8: %q", info.Text)
			}
			if info.Text != testCase.want {
				t.Fatalf("expected %d characters, got %d (%q...)",
					utf8.RuneCountInString(testCase.want), utf8.RuneCountInString(info.Text), info.Text[:20])
			}
		})
	}
}

func TestPostInfoWithoutCredentialReportsFetchFailed(t *testing.T) {
	client := NewTwitterClient(TwitterConfig{BaseURL: "http://unused.invalid"})

	_, err := client.PostInfo(context.Background(), "1234567890", "someone")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential in chain, got %v", err)
	}
}

func TestPostInfoCollapsesErrorStatusesToFetchFailed(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

		if _, err := client.PostInfo(context.Background(), "1234567890", "someone"); !errors.Is(err, ErrFetchFailed) {
			t.Fatalf("status %d: expected ErrFetchFailed, got %v", status, err)
		}
		server.Close()
	}
}

func TestPostInfoFailsOnMissingDataPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"title":"Not Found Error"}]}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewTwitterClient(TwitterConfig{BaseURL: server.URL, BearerToken: "test-token"})

	if _, err := client.PostInfo(context.Background(), "1234567890", "someone"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
