package refparse

import (
	"errors"
	"testing"
)

func TestPreprintAcceptsBareAndURLForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare id", input: "2403.12345", want: "2403.12345"},
		{name: "bare id with version", input: "2403.12345v2", want: "2403.12345v2"},
		{name: "four digit suffix", input: "0704.0001", want: "0704.0001"},
		{name: "abs url", input: "https://arxiv.org/abs/2403.12345", want: "2403.12345"},
		{name: "abs url with version", input: "https://arxiv.org/abs/2403.12345v2", want: "2403.12345v2"},
		{name: "pdf url", input: "https://arxiv.org/pdf/2403.12345.pdf", want: "2403.12345"},
		{name: "pdf url without extension", input: "https://arxiv.org/pdf/2403.12345", want: "2403.12345"},
		{name: "www host", input: "https://www.arxiv.org/abs/2403.12345", want: "2403.12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Preprint(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, id)
			}
		})
	}
}

func TestPreprintRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not an id", input: "not-an-id"},
		{name: "old style id", input: "hep-th/9901001"},
		{name: "wrong host", input: "https://example.org/abs/2403.12345"},
		{name: "unsupported path", input: "https://arxiv.org/list/cs.LG/recent"},
		{name: "abs without id", input: "https://arxiv.org/abs"},
		{name: "malformed id in url", input: "https://arxiv.org/abs/24x3.12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Preprint(tc.input); !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("expected ErrInvalidReference, got %v", err)
			}
		})
	}
}
