package logger

import (
	"strings"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "zero limit", in: "hello", limit: 0, want: ""},
		{name: "under limit", in: "hello", limit: 10, want: "hello"},
		{name: "exact limit", in: "hello", limit: 5, want: "hello"},
		{name: "over limit", in: "hello world", limit: 5, want: "hello..."},
		{name: "trims whitespace", in: "  hi  ", limit: 10, want: "hi"},
		{name: "multibyte", in: strings.Repeat("я", 10), limit: 4, want: "яяяя..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateForLog(tc.in, tc.limit)
			if got != tc.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestWithProviderNilLogger(t *testing.T) {
	got := WithProvider(nil, "gemini", "gemini-2.5-flash")
	if got == nil {
		t.Fatalf("expected a usable logger")
	}
	// Must not panic.
	got.Debug("probe")
}
