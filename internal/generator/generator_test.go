package generator

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/tuivoc/internal/model"
)

func testWords(n int, category model.Category) []model.Word {
	words := make([]model.Word, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, model.Word{
			ID:       fmt.Sprintf("%s-%d", category, i),
			English:  fmt.Sprintf("Word%d", i),
			Chinese:  fmt.Sprintf("词%d", i),
			Category: category,
		})
	}
	return words
}

func TestSampleFiltersByCategory(t *testing.T) {
	pool := append(testWords(5, model.CategoryCET4), testWords(3, model.CategoryCET6)...)
	g := NewWithSeed(1)
	got := g.Sample(pool, model.CategoryCET6, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 words, got %d", len(got))
	}
	for _, w := range got {
		if w.Category != model.CategoryCET6 {
			t.Fatalf("unexpected category %q", w.Category)
		}
	}
	if all := g.Sample(pool, model.CategoryAll, 100); len(all) != len(pool) {
		t.Fatalf("expected all %d words, got %d", len(pool), len(all))
	}
}

func TestSampleNoDuplicatesNoPadding(t *testing.T) {
	pool := testWords(3, model.CategoryBasic)
	got := NewWithSeed(7).Sample(pool, model.CategoryAll, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 words, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, w := range got {
		if seen[w.ID] {
			t.Fatalf("duplicate word %s", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestSampleEmptyAndLimits(t *testing.T) {
	g := NewWithSeed(3)
	if got := g.Sample(testWords(4, model.CategoryCET4), model.CategoryIELTS, 5); len(got) != 0 {
		t.Fatalf("expected empty sample, got %d", len(got))
	}
	if got := g.Sample(testWords(4, model.CategoryCET4), model.CategoryAll, 0); len(got) != 0 {
		t.Fatalf("expected empty sample for zero count, got %d", len(got))
	}
	if got := g.Sample(testWords(10, model.CategoryCET4), model.CategoryAll, 4); len(got) != 4 {
		t.Fatalf("expected 4 words, got %d", len(got))
	}
}

func TestSampleDoesNotMutatePool(t *testing.T) {
	pool := testWords(20, model.CategoryBasic)
	NewWithSeed(11).Sample(pool, model.CategoryAll, 20)
	for i, w := range pool {
		if w.ID != fmt.Sprintf("basic-%d", i) {
			t.Fatalf("pool reordered at %d: %s", i, w.ID)
		}
	}
}

func TestQuestionsMultipleChoice(t *testing.T) {
	words := testWords(10, model.CategoryCET4)
	questions := NewWithSeed(42).Questions(words, model.MultipleChoice)
	if len(questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Word.ID != words[i].ID {
			t.Fatalf("order not preserved at %d", i)
		}
		if q.CorrectAnswer != words[i].Chinese {
			t.Fatalf("expected answer %q, got %q", words[i].Chinese, q.CorrectAnswer)
		}
		if len(q.Options) != 4 {
			t.Fatalf("expected 4 options, got %d", len(q.Options))
		}
		assertOptions(t, q)
	}
}

func TestQuestionsListening(t *testing.T) {
	words := testWords(6, model.CategoryCET6)
	questions := NewWithSeed(5).Questions(words, model.Listening)
	for i, q := range questions {
		if q.CorrectAnswer != words[i].English {
			t.Fatalf("expected answer %q, got %q", words[i].English, q.CorrectAnswer)
		}
		for _, opt := range q.Options {
			if opt[:4] != "Word" {
				t.Fatalf("listening options must be english, got %q", opt)
			}
		}
		assertOptions(t, q)
	}
}

func TestQuestionsFillInBlank(t *testing.T) {
	words := []model.Word{{ID: "1", English: "Hello", Chinese: "你好"}}
	questions := NewWithSeed(1).Questions(words, model.FillInBlank)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if len(questions[0].Options) != 0 {
		t.Fatalf("fill-in questions must not have options")
	}
	if questions[0].CorrectAnswer != "hello" {
		t.Fatalf("expected lowercase answer, got %q", questions[0].CorrectAnswer)
	}
}

func TestQuestionsOptionCountBounds(t *testing.T) {
	tests := []struct {
		words       int
		distractors int
		want        int
	}{
		{words: 1, distractors: 3, want: 1},
		{words: 2, distractors: 3, want: 2},
		{words: 4, distractors: 3, want: 4},
		{words: 10, distractors: 5, want: 6},
		{words: 10, distractors: 0, want: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dw_%dk", tt.words, tt.distractors), func(t *testing.T) {
			g := NewWithSeed(9, WithDistractors(tt.distractors))
			for _, q := range g.Questions(testWords(tt.words, model.CategoryBasic), model.MultipleChoice) {
				if len(q.Options) != tt.want {
					t.Fatalf("expected %d options, got %d", tt.want, len(q.Options))
				}
				assertOptions(t, q)
			}
		})
	}
}

func TestQuestionsExcludeSameEnglish(t *testing.T) {
	words := []model.Word{
		{ID: "a", English: "bank", Chinese: "银行"},
		{ID: "b", English: "bank", Chinese: "河岸"},
		{ID: "c", English: "river", Chinese: "河"},
	}
	questions := NewWithSeed(2).Questions(words, model.MultipleChoice)
	for _, opt := range questions[0].Options {
		if opt == "河岸" {
			t.Fatalf("word sharing english text must not be a distractor")
		}
	}
	if len(questions[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %v", questions[0].Options)
	}
}

func TestIsCorrect(t *testing.T) {
	fill := model.Question{CorrectAnswer: "hello"}
	tests := []struct {
		answer string
		want   bool
	}{
		{"hello", true},
		{"  HELLO  ", true},
		{"Hello\n", true},
		{"Hola", false},
		{"", false},
		{"hel lo", false},
	}
	for _, tt := range tests {
		if got := IsCorrect(fill, model.FillInBlank, tt.answer); got != tt.want {
			t.Fatalf("IsCorrect(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}

	choice := model.Question{Options: []string{"你好", "再见"}, CorrectAnswer: "你好"}
	if !IsCorrect(choice, model.MultipleChoice, "你好") {
		t.Fatalf("expected exact match to be correct")
	}
	if IsCorrect(choice, model.MultipleChoice, " 你好") {
		t.Fatalf("choice answers must match exactly")
	}
}

func assertOptions(t *testing.T, q model.Question) {
	t.Helper()
	seen := map[string]bool{}
	hits := 0
	for _, opt := range q.Options {
		if seen[opt] {
			t.Fatalf("duplicate option %q", opt)
		}
		seen[opt] = true
		if opt == q.CorrectAnswer {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("expected correct answer exactly once, found %d in %v", hits, q.Options)
	}
}

func TestQuestionsListeningKeepsDuplicateDistractors(t *testing.T) {
	words := []model.Word{
		{ID: "1", English: "apple", Chinese: "苹果"},
		{ID: "2", English: "bank", Chinese: "银行"},
		{ID: "3", English: "bank", Chinese: "河岸"},
	}
	qs := NewWithSeed(5).Questions(words, model.Listening)
	options := qs[0].Options
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %v", options)
	}
	banks := 0
	for _, opt := range options {
		if opt == "bank" {
			banks++
		}
	}
	if banks != 2 {
		t.Fatalf("expected both homograph distractors, got %v", options)
	}
}
