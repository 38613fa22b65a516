package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuivoc/internal/generator"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/session"
)

func testPool(n int) []model.Word {
	pool := make([]model.Word, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, model.Word{
			ID:       fmt.Sprintf("basic:word%d", i),
			English:  fmt.Sprintf("Word%d", i),
			Chinese:  fmt.Sprintf("词%d", i),
			Category: model.CategoryBasic,
		})
	}
	return pool
}

func newTestModel(t *testing.T, variant model.TestVariant, pool []model.Word) *Model {
	t.Helper()
	cfg := model.Config{
		Category:  model.CategoryBasic,
		Count:     3,
		Variant:   variant,
		TimeLimit: 15 * time.Second,
		TickEvery: time.Hour,
	}
	m := NewModel(cfg, nil, generator.NewWithSeed(7), pool, nil)
	t.Cleanup(m.Close)
	return m
}

func runesKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceFlowCompletesSession(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, testPool(5))
	if m.engine.State() != session.StateActive {
		t.Fatalf("expected active session, got %v", m.engine.State())
	}
	for i := 0; i < 3; i++ {
		view, ok := m.engine.Current()
		if !ok {
			t.Fatalf("expected current question %d", i)
		}
		correct := 0
		for j, opt := range view.Options {
			if opt == view.Word.Chinese {
				correct = j
			}
		}
		m.Update(runesKey(fmt.Sprint(correct + 1)))
		if m.engine.State() != session.StateAnswered {
			t.Fatalf("expected answered state, got %v", m.engine.State())
		}
		if !strings.Contains(m.View(), "Correct!") {
			t.Fatalf("expected feedback in view")
		}
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if m.engine.State() != session.StateCompleted {
		t.Fatalf("expected completed state, got %v", m.engine.State())
	}
	if m.summary == nil || m.summary.CorrectCount != 3 || m.summary.Accuracy != 100 {
		t.Fatalf("unexpected summary: %+v", m.summary)
	}
	if !m.hasLast || m.lastAcc != 100 {
		t.Fatalf("expected footer stats to update")
	}
	if !strings.Contains(m.View(), "Score 3/3") {
		t.Fatalf("expected summary view")
	}
}

func TestChoiceCursorNavigation(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, testPool(5))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}
	view, _ := m.engine.Current()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res, ok := m.engine.LastResult()
	if !ok || res.UserAnswer != view.Options[1] {
		t.Fatalf("expected option under cursor to be submitted, got %+v", res)
	}
}

func TestFillInFlowAcceptsTypedAnswer(t *testing.T) {
	m := newTestModel(t, model.FillInBlank, testPool(3))
	view, ok := m.engine.Current()
	if !ok {
		t.Fatalf("expected current question")
	}
	m.Update(runesKey("  " + strings.ToUpper(view.Word.English)))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res, ok := m.engine.LastResult()
	if !ok || !res.Correct {
		t.Fatalf("expected correct fill-in answer, got %+v", res)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.input.Value() != "" {
		t.Fatalf("expected input to reset for next question")
	}
}

func TestRestartKeepsQuestions(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, testPool(5))
	first, _ := m.engine.Current()
	m.Update(runesKey("1"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.engine.Index() != 0 || m.engine.State() != session.StateActive {
		t.Fatalf("expected restart at first question, got index %d state %v", m.engine.Index(), m.engine.State())
	}
	again, _ := m.engine.Current()
	if again.Word != first.Word {
		t.Fatalf("expected same first word after restart")
	}
}

func TestEmptyPoolShowsNotice(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, nil)
	if m.engine.State() != session.StateNoQuestions {
		t.Fatalf("expected no questions state, got %v", m.engine.State())
	}
	if !strings.Contains(m.View(), "No words to practice") {
		t.Fatalf("expected empty notice")
	}
	if _, cmd := m.Update(runesKey("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestCallbacksRunOnUpdate(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, testPool(3))
	called := false
	m.post(func() { called = true })
	msg := m.waitForCallback()()
	if _, cmd := m.Update(msg); cmd == nil {
		t.Fatalf("expected another wait command")
	}
	if !called {
		t.Fatalf("expected posted callback to run")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, model.MultipleChoice, testPool(5))
	m.hasLast = true
	m.lastAcc = 80
	m.allAcc = 72.5
	m.now = func() time.Time { return m.engine.StartedAt().Add(42 * time.Second) }
	out := m.renderFooter()
	if !containsAll(out, []string{"Progress 0/3", "Correct 0", "Elapsed 42s", "Last 80.0%", "All-time 72.5%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func TestSummaryMarksTimeouts(t *testing.T) {
	m := newTestModel(t, model.FillInBlank, testPool(1))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.State() != session.StateCompleted {
		t.Fatalf("expected completed state, got %v", m.engine.State())
	}
	out := m.View()
	if !strings.Contains(out, "(blank)") || strings.Contains(out, "(timed out)") {
		t.Fatalf("blank submit should be reviewed as blank:\n%s", out)
	}
}
