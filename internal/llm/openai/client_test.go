package openai

import (
	"strings"
	"testing"
)

func TestTruncateChars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "shorter than max", in: "hello", max: 10, want: "hello"},
		{name: "exactly max", in: "hello", max: 5, want: "hello"},
		{name: "truncated", in: "hello world", max: 5, want: "hello"},
		{name: "zero max keeps input", in: "hello", max: 0, want: "hello"},
		{name: "multibyte runes", in: "héllo wörld", max: 7, want: "héllo w"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateChars(tt.in, tt.max); got != tt.want {
				t.Fatalf("truncateChars(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateCharsCountsRunesNotBytes(t *testing.T) {
	in := strings.Repeat("é", 100)
	got := truncateChars(in, 10)
	if got != strings.Repeat("é", 10) {
		t.Fatalf("expected 10 runes, got %d bytes %q", len(got), got)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{EmbeddingModel: "m", ChatModel: "m"}); err == nil {
		t.Fatalf("expected error for missing API key")
	}
	if _, err := NewClient(Config{APIKey: "k", ChatModel: "m"}); err == nil {
		t.Fatalf("expected error for missing embedding model")
	}
	if _, err := NewClient(Config{APIKey: "k", EmbeddingModel: "m"}); err == nil {
		t.Fatalf("expected error for missing chat model")
	}
}

func TestNewClientDefaultsEmbedBudget(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k", EmbeddingModel: "e", ChatModel: "c"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.embedMaxChars != defaultEmbedMaxChars {
		t.Fatalf("expected default budget %d, got %d", defaultEmbedMaxChars, c.embedMaxChars)
	}
}
