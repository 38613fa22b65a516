// Package session implements the timed quiz state machine.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/tuivoc/internal/generator"
	"github.com/verte-zerg/tuivoc/internal/model"
)

// DefaultTimeLimit is the per-question limit used when Config.TimeLimit is zero.
const DefaultTimeLimit = 15 * time.Second

// ErrInvalidTimeLimit rejects negative per-question limits.
var ErrInvalidTimeLimit = errors.New("time limit must not be negative")

// State is the engine's position in the session lifecycle.
type State int

// Engine states.
const (
	StateIdle State = iota
	StateActive
	StateAnswered
	StateCompleted
	StateNoQuestions
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateAnswered:
		return "answered"
	case StateCompleted:
		return "completed"
	case StateNoQuestions:
		return "no-questions"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Timer is the countdown the engine drives. Callbacks must arrive on the
// same loop that calls the engine.
type Timer interface {
	Arm(d time.Duration, onTick func(remaining time.Duration), onExpire func())
	Cancel()
}

// QuestionSource turns sampled words into questions.
type QuestionSource interface {
	Questions(words []model.Word, variant model.TestVariant) []model.Question
}

// Config is the inbound session configuration.
type Config struct {
	Words     []model.Word
	Variant   model.TestVariant
	TimeLimit time.Duration
}

// QuestionView is the read-only projection of the current question.
type QuestionView struct {
	Word    model.Word
	Options []string
	Index   int
	Total   int
}

// Result describes how one question was resolved.
type Result struct {
	Index         int
	Word          model.Word
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
	TimedOut      bool
}

// Engine owns one quiz session. It is not safe for concurrent use; all
// calls and timer callbacks must be serialized by the caller.
type Engine struct {
	timer    Timer
	source   QuestionSource
	listener Listener
	now      func() time.Time

	variant   model.TestVariant
	timeLimit time.Duration
	questions []model.Question

	state         State
	currentIndex  int
	correctCount  int
	wrongAnswers  []model.WrongAnswerRecord
	timeRemaining time.Duration
	startedAt     time.Time
	lastResult    Result
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithListener subscribes l to engine events.
func WithListener(l Listener) EngineOption {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithNow replaces the wall clock used for session timestamps.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithQuestionSource replaces the default question generator.
func WithQuestionSource(src QuestionSource) EngineOption {
	return func(e *Engine) {
		e.source = src
	}
}

// New returns an engine with no questions that drives t. Call Setup before Start.
func New(t Timer, opts ...EngineOption) *Engine {
	e := &Engine{
		timer:     t,
		listener:  nopListener{},
		now:       time.Now,
		timeLimit: DefaultTimeLimit,
		state:     StateNoQuestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = generator.New()
	}
	if e.listener == nil {
		e.listener = nopListener{}
	}
	return e
}

// Setup builds the question sequence and returns the engine to Idle (or
// NoQuestions when there is nothing to ask). The timer is not started.
func (e *Engine) Setup(cfg Config) error {
	if cfg.TimeLimit < 0 {
		return ErrInvalidTimeLimit
	}
	e.timer.Cancel()
	limit := cfg.TimeLimit
	if limit == 0 {
		limit = DefaultTimeLimit
	}
	e.variant = cfg.Variant
	e.timeLimit = limit
	e.questions = e.source.Questions(cfg.Words, cfg.Variant)
	e.clear()
	return nil
}

// Reset clears all progress but keeps the questions and their order.
func (e *Engine) Reset() {
	e.timer.Cancel()
	e.clear()
}

// Close cancels any running countdown. The engine may be set up again afterwards.
func (e *Engine) Close() {
	e.timer.Cancel()
}

func (e *Engine) clear() {
	e.currentIndex = 0
	e.correctCount = 0
	e.wrongAnswers = nil
	e.timeRemaining = e.timeLimit
	e.startedAt = e.now()
	e.lastResult = Result{}
	if len(e.questions) == 0 {
		e.state = StateNoQuestions
		return
	}
	e.state = StateIdle
}

// Start shows the first question and arms the countdown.
func (e *Engine) Start() error {
	if e.state != StateIdle {
		return &TransitionError{Op: "start", From: e.state}
	}
	e.activate()
	return nil
}

// Submit resolves the current question. A repeated submit for an already
// answered question returns the first result unchanged.
func (e *Engine) Submit(answer string) (Result, error) {
	return e.submit(answer, false)
}

func (e *Engine) submit(answer string, timedOut bool) (Result, error) {
	switch e.state {
	case StateAnswered:
		return e.lastResult, nil
	case StateActive:
	default:
		return Result{}, &TransitionError{Op: "submit", From: e.state}
	}
	e.timer.Cancel()

	q := e.questions[e.currentIndex]
	res := Result{
		Index:         e.currentIndex,
		Word:          q.Word,
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		Correct:       generator.IsCorrect(q, e.variant, answer),
		TimedOut:      timedOut,
	}
	if res.Correct {
		e.correctCount++
	} else {
		e.wrongAnswers = append(e.wrongAnswers, model.WrongAnswerRecord{
			Word:          q.Word,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			TimedOut:      timedOut,
		})
	}
	e.lastResult = res
	e.state = StateAnswered
	e.listener.AnswerResolved(res)
	return res, nil
}

// Next advances past an answered question, completing the session after the last one.
func (e *Engine) Next() error {
	if e.state != StateAnswered {
		return &TransitionError{Op: "next", From: e.state}
	}
	e.currentIndex++
	if e.currentIndex == len(e.questions) {
		e.state = StateCompleted
		e.timeRemaining = 0
		if sum, err := e.Summary(); err == nil {
			e.listener.Completed(sum)
		}
		return nil
	}
	e.activate()
	return nil
}

func (e *Engine) activate() {
	e.state = StateActive
	e.timeRemaining = e.timeLimit
	e.listener.QuestionChanged(e.view())
	e.timer.Arm(e.timeLimit, e.onTick, e.onExpire)
}

func (e *Engine) onTick(remaining time.Duration) {
	if e.state != StateActive {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > e.timeLimit {
		remaining = e.timeLimit
	}
	e.timeRemaining = remaining
	e.listener.Tick(remaining)
}

func (e *Engine) onExpire() {
	if e.state != StateActive {
		return
	}
	e.timeRemaining = 0
	_, _ = e.submit("", true)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Empty reports whether the session has no questions.
func (e *Engine) Empty() bool {
	return len(e.questions) == 0
}

// Completed reports whether every question has been resolved and advanced past.
func (e *Engine) Completed() bool {
	return e.currentIndex == len(e.questions)
}

// Variant returns the configured test variant.
func (e *Engine) Variant() model.TestVariant {
	return e.variant
}

// Index returns the position of the current question.
func (e *Engine) Index() int {
	return e.currentIndex
}

// Total returns the number of questions in the session.
func (e *Engine) Total() int {
	return len(e.questions)
}

// CorrectCount returns the number of correct answers so far.
func (e *Engine) CorrectCount() int {
	return e.correctCount
}

// WrongAnswers returns a copy of the wrong-answer ledger.
func (e *Engine) WrongAnswers() []model.WrongAnswerRecord {
	out := make([]model.WrongAnswerRecord, len(e.wrongAnswers))
	copy(out, e.wrongAnswers)
	return out
}

// TimeRemaining returns the countdown value for the current question.
func (e *Engine) TimeRemaining() time.Duration {
	return e.timeRemaining
}

// TimeLimit returns the per-question limit.
func (e *Engine) TimeLimit() time.Duration {
	return e.timeLimit
}

// StartedAt returns when the current run of the session was set up or reset.
func (e *Engine) StartedAt() time.Time {
	return e.startedAt
}

// LastResult returns the most recent resolution, if any question was answered.
func (e *Engine) LastResult() (Result, bool) {
	if e.state != StateAnswered && e.correctCount+len(e.wrongAnswers) == 0 {
		return Result{}, false
	}
	return e.lastResult, true
}

// Current returns the question being shown. ok is false when no question is current.
func (e *Engine) Current() (QuestionView, bool) {
	if e.currentIndex >= len(e.questions) {
		return QuestionView{}, false
	}
	return e.view(), true
}

func (e *Engine) view() QuestionView {
	q := e.questions[e.currentIndex]
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return QuestionView{
		Word:    q.Word,
		Options: opts,
		Index:   e.currentIndex,
		Total:   len(e.questions),
	}
}
