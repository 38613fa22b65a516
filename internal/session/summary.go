package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// Summary is the final projection of a finished session.
type Summary struct {
	Variant        model.TestVariant
	TotalQuestions int
	CorrectCount   int
	WrongAnswers   []model.WrongAnswerRecord
	StartedAt      time.Time
	EndedAt        time.Time
	Duration       time.Duration
	Accuracy       float64
	TimeLimit      time.Duration
}

// DurationSeconds returns the session length in seconds.
func (s Summary) DurationSeconds() float64 {
	return s.Duration.Seconds()
}

// Record converts the summary into the store's session record with a fresh ID.
func (s Summary) Record(category model.Category) model.SessionRecord {
	wrong := make([]model.WrongAnswerRecord, len(s.WrongAnswers))
	copy(wrong, s.WrongAnswers)
	return model.SessionRecord{
		ID:             uuid.NewString(),
		Variant:        s.Variant,
		Category:       category,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		TotalQuestions: s.TotalQuestions,
		CorrectCount:   s.CorrectCount,
		DurationMs:     s.Duration.Milliseconds(),
		TimeLimitMs:    s.TimeLimit.Milliseconds(),
		WrongAnswers:   wrong,
	}
}

// Accuracy returns correct/total as a percentage, or 0 for an empty session.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Summary reports the finished session. It is only available once the
// session is completed or had no questions.
func (e *Engine) Summary() (Summary, error) {
	if e.state != StateCompleted && e.state != StateNoQuestions {
		return Summary{}, &TransitionError{Op: "summary", From: e.state}
	}
	ended := e.now()
	total := len(e.questions)
	return Summary{
		Variant:        e.variant,
		TotalQuestions: total,
		CorrectCount:   e.correctCount,
		WrongAnswers:   e.WrongAnswers(),
		StartedAt:      e.startedAt,
		EndedAt:        ended,
		Duration:       ended.Sub(e.startedAt),
		Accuracy:       Accuracy(e.correctCount, total),
		TimeLimit:      e.timeLimit,
	}, nil
}
