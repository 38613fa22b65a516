// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuivoc/internal/generator"
	"github.com/verte-zerg/tuivoc/internal/logging"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/session"
	statsPkg "github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/timer"
)

const eventBuffer = 16

// callbackMsg carries a countdown callback onto the Bubble Tea loop.
type callbackMsg struct {
	fn func()
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	pool   []model.Word
	logger *zap.Logger

	engine    *session.Engine
	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	input  textinput.Model
	bar    progress.Model
	cursor int

	width  int
	height int

	now func() time.Time

	summary    *session.Summary
	saveFailed bool

	lastAcc    float64
	hasLast    bool
	allAcc     float64
	allCorrect int
	allTotal   int
}

// NewModel constructs a quiz TUI model and starts the first session.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, pool []model.Word, logger *zap.Logger) *Model {
	if logger == nil {
		logger = logging.Nop()
	}
	input := textinput.New()
	input.Placeholder = "type the English word"
	input.CharLimit = 64
	input.Focus()

	m := &Model{
		config: cfg,
		store:  st,
		gen:    gen,
		pool:   pool,
		logger: logger,
		now:    time.Now,
		events: make(chan func(), eventBuffer),
		done:   make(chan struct{}),
		input:  input,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	countdown := timer.New(m.post, timer.WithInterval(cfg.TickEvery))
	m.engine = session.New(countdown,
		session.WithQuestionSource(gen),
		session.WithListener(session.ListenerFuncs{
			OnQuestion: m.onQuestion,
			OnAnswer:   m.onAnswer,
			OnComplete: m.onComplete,
		}),
	)
	m.loadFooterStats()
	m.newSession()
	return m
}

// Close stops the countdown and releases any goroutine waiting to post.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.engine.Close()
		close(m.done)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForCallback(), textinput.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.contentWidth()
		return m, nil
	case callbackMsg:
		if msg.fn != nil {
			msg.fn()
		}
		return m, m.waitForCallback()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.engine.State() == session.StateActive && m.engine.Variant() == model.FillInBlank {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Close()
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.restart()
		return m, nil
	}

	switch m.engine.State() {
	case session.StateActive:
		if m.engine.Variant() == model.FillInBlank {
			return m.handleFillKey(msg)
		}
		return m, m.handleChoiceKey(msg)
	case session.StateAnswered:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			if err := m.engine.Next(); err != nil {
				m.logger.Warn("advance failed", zap.Error(err))
			}
		}
		return m, nil
	default:
		switch msg.String() {
		case "q":
			m.Close()
			return m, tea.Quit
		case "r":
			m.restart()
		case "n", "enter":
			m.newSession()
		}
		return m, nil
	}
}

func (m *Model) handleFillKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.submit(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleChoiceKey(msg tea.KeyMsg) tea.Cmd {
	view, ok := m.engine.Current()
	if !ok || len(view.Options) == 0 {
		return nil
	}
	switch msg.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(view.Options)) % len(view.Options)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(view.Options)
	case "enter":
		m.submit(view.Options[m.cursor])
	case "q":
		m.Close()
		return tea.Quit
	default:
		if idx, ok := optionIndex(msg.String(), len(view.Options)); ok {
			m.cursor = idx
			m.submit(view.Options[idx])
		}
	}
	return nil
}

// optionIndex maps the keys "1".."9" to option positions.
func optionIndex(key string, count int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= count {
		return 0, false
	}
	return idx, true
}

func (m *Model) submit(answer string) {
	if _, err := m.engine.Submit(answer); err != nil {
		m.logger.Warn("submit failed", zap.Error(err))
	}
}

func (m *Model) newSession() {
	words := m.gen.Sample(m.pool, m.config.Category, m.config.Count)
	m.summary = nil
	m.saveFailed = false
	if err := m.engine.Setup(session.Config{
		Words:     words,
		Variant:   m.config.Variant,
		TimeLimit: m.config.TimeLimit,
	}); err != nil {
		m.logger.Error("session setup failed", zap.Error(err))
		return
	}
	m.logger.Info("session ready",
		zap.String("category", string(m.config.Category)),
		zap.String("variant", m.config.Variant.String()),
		zap.Int("questions", m.engine.Total()),
	)
	m.start()
}

func (m *Model) restart() {
	m.summary = nil
	m.saveFailed = false
	m.engine.Reset()
	m.start()
}

func (m *Model) start() {
	if m.engine.Empty() {
		return
	}
	if err := m.engine.Start(); err != nil {
		m.logger.Warn("start failed", zap.Error(err))
	}
}

// post hands countdown callbacks to the Bubble Tea loop until the model closes.
func (m *Model) post(fn func()) {
	select {
	case m.events <- fn:
	case <-m.done:
	}
}

func (m *Model) waitForCallback() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-m.events:
			return callbackMsg{fn: fn}
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) onQuestion(session.QuestionView) {
	m.cursor = 0
	m.input.Reset()
}

func (m *Model) onAnswer(res session.Result) {
	m.logger.Debug("answer resolved",
		zap.Int("index", res.Index),
		zap.String("word", res.Word.English),
		zap.Bool("correct", res.Correct),
		zap.Bool("timed_out", res.TimedOut),
	)
}

func (m *Model) onComplete(sum session.Summary) {
	m.summary = &sum
	m.finishSession(sum)
}

func (m *Model) finishSession(sum session.Summary) {
	m.lastAcc = sum.Accuracy
	m.hasLast = true
	m.allCorrect += sum.CorrectCount
	m.allTotal += sum.TotalQuestions
	m.allAcc = session.Accuracy(m.allCorrect, m.allTotal)

	if m.store == nil {
		return
	}
	rec := sum.Record(m.config.Category)
	if err := m.store.InsertSession(context.Background(), rec); err != nil {
		m.saveFailed = true
		m.logger.Error("failed to save session", zap.Error(err))
		return
	}
	m.logger.Info("session saved",
		zap.String("id", rec.ID),
		zap.Int("correct", sum.CorrectCount),
		zap.Int("total", sum.TotalQuestions),
		zap.Duration("duration", sum.Duration),
	)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load session stats", zap.Error(err))
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastAcc, _ = statsPkg.SessionMetrics(last.CorrectCount, last.TotalQuestions, last.DurationMs)
	m.hasLast = true
	for _, s := range sessions {
		m.allCorrect += s.CorrectCount
		m.allTotal += s.TotalQuestions
	}
	m.allAcc = session.Accuracy(m.allCorrect, m.allTotal)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func remainingFraction(remaining, limit time.Duration) float64 {
	if limit <= 0 {
		return 0
	}
	f := float64(remaining) / float64(limit)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
