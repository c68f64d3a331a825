package refparse

import (
	"errors"
	"testing"
)

func TestVideoExtractsIDFromRecognizedShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{name: "short url", input: "https://youtu.be/dQw4w9WgXcQ"},
		{name: "embed url", input: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{name: "watch url with extra params", input: "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ"},
		{name: "bare id", input: "dQw4w9WgXcQ"},
		{name: "surrounding whitespace", input: "  https://youtu.be/dQw4w9WgXcQ  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Video(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != "dQw4w9WgXcQ" {
				t.Fatalf("expected dQw4w9WgXcQ, got %q", id)
			}
		})
	}
}

func TestVideoRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "too short bare id", input: "abc123"},
		{name: "too long bare id", input: "dQw4w9WgXcQQQ"},
		{name: "unrelated url", input: "https://vimeo.com/123456"},
		{name: "watch url without id", input: "https://www.youtube.com/watch"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Video(tc.input); !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("expected ErrInvalidReference, got %v", err)
			}
		})
	}
}
