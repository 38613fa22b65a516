package session

import "time"

// Listener receives engine events. Calls happen on the engine's loop.
type Listener interface {
	QuestionChanged(q QuestionView)
	AnswerResolved(r Result)
	Tick(remaining time.Duration)
	Completed(s Summary)
}

type nopListener struct{}

func (nopListener) QuestionChanged(QuestionView) {}
func (nopListener) AnswerResolved(Result)        {}
func (nopListener) Tick(time.Duration)           {}
func (nopListener) Completed(Summary)            {}

// ListenerFuncs adapts optional callbacks to a Listener.
type ListenerFuncs struct {
	OnQuestion func(QuestionView)
	OnAnswer   func(Result)
	OnTick     func(time.Duration)
	OnComplete func(Summary)
}

// QuestionChanged implements Listener.
func (f ListenerFuncs) QuestionChanged(q QuestionView) {
	if f.OnQuestion != nil {
		f.OnQuestion(q)
	}
}

// AnswerResolved implements Listener.
func (f ListenerFuncs) AnswerResolved(r Result) {
	if f.OnAnswer != nil {
		f.OnAnswer(r)
	}
}

// Tick implements Listener.
func (f ListenerFuncs) Tick(remaining time.Duration) {
	if f.OnTick != nil {
		f.OnTick(remaining)
	}
}

// Completed implements Listener.
func (f ListenerFuncs) Completed(s Summary) {
	if f.OnComplete != nil {
		f.OnComplete(s)
	}
}
