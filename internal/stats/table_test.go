package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Answer", "Misses"}
	rows := [][]string{
		{"apple", "苹果", "3"},
		{"ambiguous", "模糊的", "12"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word      Answer Misses" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "apple     苹果        3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ambiguous 模糊的     12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
