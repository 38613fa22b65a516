package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("the quick brown fox", 9)
	want := []string{"the quick", "brown fox"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("我喜欢苹果", 4)
	want := []string{"我喜", "欢苹", "果"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapTextEmptyAndUnbounded(t *testing.T) {
	if lines := wrapText("   ", 10); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
	if lines := wrapText("a b", 0); len(lines) != 1 || lines[0] != "a b" {
		t.Fatalf("expected single line, got %q", lines)
	}
}

func TestBlankOutIgnoresCase(t *testing.T) {
	got := blankOut("Apple pie is an apple dessert.", "apple")
	if got != "____ pie is an ____ dessert." {
		t.Fatalf("unexpected sentence: %q", got)
	}
	if blankOut("", "apple") != "" {
		t.Fatalf("expected empty sentence")
	}
}

func TestOptionIndex(t *testing.T) {
	tests := []struct {
		key   string
		count int
		idx   int
		ok    bool
	}{
		{"1", 4, 0, true},
		{"4", 4, 3, true},
		{"5", 4, 0, false},
		{"0", 4, 0, false},
		{"a", 4, 0, false},
		{"10", 4, 0, false},
	}
	for _, tt := range tests {
		idx, ok := optionIndex(tt.key, tt.count)
		if idx != tt.idx || ok != tt.ok {
			t.Fatalf("optionIndex(%q, %d) = %d, %v", tt.key, tt.count, idx, ok)
		}
	}
}
