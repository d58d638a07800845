package main

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEditableFields(t *testing.T) {
	content := map[string]any{
		"headline":        "Derby Win",
		"article_content": "<p>body</p>",
		"word_count":      750,
		"sections":        []string{"intro"},
	}
	got := editableFields(content)
	want := []string{"article_content", "headline"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("editable fields (-want +got):\n%s", diff)
	}
}
