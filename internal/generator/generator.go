// Package generator samples words and builds quiz questions.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/wordlist"
)

// DefaultDistractors is the number of wrong options shown with each choice question.
const DefaultDistractors = 3

// Generator produces randomized word samples and questions.
type Generator struct {
	rnd         *rand.Rand
	distractors int
}

// Option configures a Generator.
type Option func(*Generator)

// WithDistractors sets how many distractors choice questions get. Negative values are treated as zero.
func WithDistractors(k int) Option {
	return func(g *Generator) {
		if k < 0 {
			k = 0
		}
		g.distractors = k
	}
}

// New returns a Generator seeded with the current time.
func New(opts ...Option) *Generator {
	return NewWithSeed(time.Now().UnixNano(), opts...)
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rnd:         rand.New(rand.NewSource(seed)),
		distractors: DefaultDistractors,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Distractors reports the configured distractor count.
func (g *Generator) Distractors() int {
	return g.distractors
}

// Sample filters pool by category, shuffles it and returns at most count words.
func (g *Generator) Sample(pool []model.Word, category model.Category, count int) []model.Word {
	if count <= 0 {
		return []model.Word{}
	}
	filtered := wordlist.Filter(pool, wordlist.FilterForCategory(category))
	g.rnd.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if count > len(filtered) {
		count = len(filtered)
	}
	return filtered[:count]
}

// Questions builds one question per word, preserving order.
func (g *Generator) Questions(words []model.Word, variant model.TestVariant) []model.Question {
	questions := make([]model.Question, 0, len(words))
	for i, w := range words {
		switch variant {
		case model.FillInBlank:
			questions = append(questions, model.Question{
				Word:          w,
				CorrectAnswer: strings.ToLower(w.English),
			})
		case model.Listening:
			questions = append(questions, g.choiceQuestion(words, i, englishOf))
		default:
			questions = append(questions, g.choiceQuestion(words, i, chineseOf))
		}
	}
	return questions
}

func englishOf(w model.Word) string { return w.English }

func chineseOf(w model.Word) string { return w.Chinese }

// choiceQuestion excludes other words by English text only. Two words that
// share a translation can still both appear.
func (g *Generator) choiceQuestion(words []model.Word, idx int, field func(model.Word) string) model.Question {
	target := words[idx]
	correct := field(target)

	others := make([]model.Word, 0, len(words))
	for _, w := range words {
		if w.English != target.English {
			others = append(others, w)
		}
	}
	g.rnd.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	k := g.distractors
	if k > len(others) {
		k = len(others)
	}

	options := make([]string, 0, k+1)
	options = append(options, correct)
	for _, w := range others[:k] {
		options = append(options, field(w))
	}
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return model.Question{
		Word:          target,
		Options:       options,
		CorrectAnswer: correct,
	}
}

// IsCorrect reports whether answer resolves q. FillInBlank ignores case and
// surrounding whitespace; choice variants need an exact match.
func IsCorrect(q model.Question, variant model.TestVariant, answer string) bool {
	if variant == model.FillInBlank {
		return strings.ToLower(strings.TrimSpace(answer)) == q.CorrectAnswer
	}
	return answer == q.CorrectAnswer
}
