package stats

import (
	"testing"

	"github.com/verte-zerg/tuivoc/internal/model"
)

func TestTopMissedWords(t *testing.T) {
	aggs := []model.WordAggregate{
		{English: "pear", Misses: 2, TimedOut: 0},
		{English: "apple", Misses: 2, TimedOut: 1},
		{English: "kiwi", Misses: 5},
		{English: "fig", Misses: 2, TimedOut: 0},
	}
	top := TopMissedWords(aggs, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 words, got %d", len(top))
	}
	got := []string{top[0].English, top[1].English, top[2].English}
	want := []string{"kiwi", "apple", "fig"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
	if aggs[0].English != "pear" {
		t.Fatalf("input was reordered")
	}
	if TopMissedWords(aggs, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
	if len(TopMissedWords(aggs, 10)) != 4 {
		t.Fatalf("expected all words when n exceeds input")
	}
}
