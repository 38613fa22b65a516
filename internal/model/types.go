// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category groups words by exam or level.
type Category string

// Known categories. CategoryAll disables filtering.
const (
	CategoryAll   Category = "all"
	CategoryBasic Category = "basic"
	CategoryCET4  Category = "cet4"
	CategoryCET6  Category = "cet6"
	CategoryIELTS Category = "ielts"
	CategoryTOEFL Category = "toefl"
)

// Categories lists the known word categories in display order.
var Categories = []Category{CategoryBasic, CategoryCET4, CategoryCET6, CategoryIELTS, CategoryTOEFL}

// ParseCategory validates a category name. "all" is accepted.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategoryAll {
		return c, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// TestVariant selects the question shape.
type TestVariant int

// Test variants.
const (
	MultipleChoice TestVariant = iota
	FillInBlank
	Listening
)

func (v TestVariant) String() string {
	switch v {
	case MultipleChoice:
		return "choice"
	case FillInBlank:
		return "fill"
	case Listening:
		return "listening"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseTestVariant maps a CLI/config name to a TestVariant.
func ParseTestVariant(s string) (TestVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "choice", "multiple-choice", "mc":
		return MultipleChoice, nil
	case "fill", "fill-in-blank", "spelling":
		return FillInBlank, nil
	case "listening", "listen":
		return Listening, nil
	default:
		return 0, fmt.Errorf("unknown test variant %q", s)
	}
}

// Word is a vocabulary entry. Owned by the store, read-only elsewhere.
type Word struct {
	ID                 string
	English            string
	Chinese            string
	Phonetic           string
	PartOfSpeech       string
	Category           Category
	Difficulty         int
	ExampleSentence    string
	ExampleTranslation string
}

// Question is one prompt in a session. Options is empty for FillInBlank.
type Question struct {
	Word          Word
	Options       []string
	CorrectAnswer string
}

// WrongAnswerRecord captures an incorrect or unanswered question.
type WrongAnswerRecord struct {
	Word          Word
	UserAnswer    string
	CorrectAnswer string
	TimedOut      bool
}

// Config defines practice settings.
type Config struct {
	Category    Category
	Count       int
	Variant     TestVariant
	TimeLimit   time.Duration
	Distractors int
	TickEvery   time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Variant     string
	Since       *time.Time
	Last        int
	CurveWindow int
	MissedTop   int
}

// SessionRecord is a completed session as handed to the store.
type SessionRecord struct {
	ID             string
	Variant        TestVariant
	Category       Category
	StartedAt      time.Time
	EndedAt        time.Time
	TotalQuestions int
	CorrectCount   int
	DurationMs     int64
	TimeLimitMs    int64
	WrongAnswers   []WrongAnswerRecord
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID      string
	Variant        TestVariant
	EndedAt        time.Time
	TotalQuestions int
	CorrectCount   int
	DurationMs     int64
}

// WordAggregate counts misses of one word across sessions.
type WordAggregate struct {
	WordID        string
	English       string
	CorrectAnswer string
	Misses        int
	TimedOut      int
}
