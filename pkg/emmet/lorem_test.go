package emmet

import (
	"strings"
	"testing"
)

func TestPlaceholderText(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: -1, want: "."},
		{n: 0, want: "."},
		{n: 1, want: "Lorem."},
		{n: 5, want: "Lorem ipsum dolor sit amet."},
	}

	for _, tt := range tests {
		if got := PlaceholderText(tt.n); got != tt.want {
			t.Errorf("PlaceholderText(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPlaceholderTextCycles(t *testing.T) {
	n := len(loremWords) + 2
	got := PlaceholderText(n)

	words := strings.Fields(strings.TrimSuffix(got, "."))
	if len(words) != n {
		t.Fatalf("got %d words, want %d", len(words), n)
	}
	if words[len(loremWords)] != "lorem" || words[len(loremWords)+1] != "ipsum" {
		t.Errorf("corpus did not wrap around: %q", got)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("missing final period: %q", got)
	}
}

func TestMatchLorem(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "lorem", want: defaultLoremWords, wantOK: true},
		{in: "lorem5", want: 5, wantOK: true},
		{in: "LOREM12", want: 12, wantOK: true},
		{in: "lorem0", want: 0, wantOK: true},
		{in: "lorem5x", wantOK: false},
		{in: "lore", wantOK: false},
		{in: "p>lorem", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := matchLorem(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("matchLorem(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExpandLoremMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain text", want: "plain text"},
		{in: "lorem3", want: "Lorem ipsum dolor."},
		{in: "Say lorem2 now", want: "Say Lorem ipsum. now"},
		{in: "Lorem1 and LOREM1", want: "Lorem. and Lorem."},
	}

	for _, tt := range tests {
		if got := expandLoremMarkers(tt.in); got != tt.want {
			t.Errorf("expandLoremMarkers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLargestLoremCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "plain text", want: 0},
		{in: "lorem", want: defaultLoremWords},
		{in: "lorem3 and LOREM12", want: 12},
		{in: "lorem40 then lorem2", want: 40},
		{in: "lorem0", want: 0},
	}

	for _, tt := range tests {
		if got := largestLoremCount(tt.in); got != tt.want {
			t.Errorf("largestLoremCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
