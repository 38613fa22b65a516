package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/session"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	detailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.engine.State() {
	case session.StateActive, session.StateAnswered:
		content = m.renderQuestion()
	case session.StateCompleted:
		content = m.renderSummary()
	case session.StateNoQuestions:
		content = m.renderEmpty()
	default:
		return ""
	}
	width := m.contentWidth()
	content = lipgloss.NewStyle().Width(width).Render(content)
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderQuestion() string {
	view, ok := m.engine.Current()
	if !ok {
		return ""
	}
	width := m.contentWidth()
	lines := []string{
		detailStyle.Render(fmt.Sprintf("Question %d/%d", view.Index+1, view.Total)),
		m.renderCountdown(),
		"",
	}
	lines = append(lines, renderPrompt(m.engine.Variant(), view.Word, width)...)
	lines = append(lines, "")

	res, answered := m.engine.LastResult()
	answered = answered && m.engine.State() == session.StateAnswered
	if m.engine.Variant() == model.FillInBlank {
		if !answered {
			lines = append(lines, m.input.View())
		}
	} else {
		lines = append(lines, renderOptions(view.Options, m.cursor, res, answered)...)
	}
	if answered {
		lines = append(lines, "")
		lines = append(lines, renderFeedback(res, width)...)
		lines = append(lines, "", detailStyle.Render("enter: next"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCountdown() string {
	remaining := m.engine.TimeRemaining()
	fraction := remainingFraction(remaining, m.engine.TimeLimit())
	return m.bar.ViewAs(fraction) + " " + formatSeconds(remaining)
}

func renderPrompt(variant model.TestVariant, w model.Word, width int) []string {
	var lines []string
	switch variant {
	case model.FillInBlank:
		lines = append(lines, promptStyle.Render(w.Chinese))
		if hint := wordDetails("", w.PartOfSpeech); hint != "" {
			lines = append(lines, detailStyle.Render(hint))
		}
		for _, line := range wrapText(blankOut(w.ExampleSentence, w.English), width) {
			lines = append(lines, detailStyle.Render(line))
		}
	case model.Listening:
		phonetic := w.Phonetic
		if phonetic == "" {
			phonetic = strings.Repeat("_ ", len(w.English))
		}
		lines = append(lines, promptStyle.Render(phonetic))
		if w.PartOfSpeech != "" {
			lines = append(lines, detailStyle.Render(w.PartOfSpeech))
		}
	default:
		lines = append(lines, promptStyle.Render(w.English))
		if details := wordDetails(w.Phonetic, w.PartOfSpeech); details != "" {
			lines = append(lines, detailStyle.Render(details))
		}
	}
	return lines
}

func wordDetails(phonetic, pos string) string {
	parts := make([]string, 0, 2)
	if phonetic != "" {
		parts = append(parts, phonetic)
	}
	if pos != "" {
		parts = append(parts, pos)
	}
	return strings.Join(parts, "  ")
}

func renderOptions(options []string, cursor int, res session.Result, answered bool) []string {
	lines := make([]string, 0, len(options))
	for i, opt := range options {
		label := fmt.Sprintf("%d. %s", i+1, opt)
		style := optionStyle
		marker := "  "
		switch {
		case answered && opt == res.CorrectAnswer:
			style = correctStyle
		case answered && opt == res.UserAnswer:
			style = incorrectStyle
		case !answered && i == cursor:
			style = selectedStyle
			marker = "> "
		}
		lines = append(lines, marker+style.Render(label))
	}
	return lines
}

func renderFeedback(res session.Result, width int) []string {
	var lines []string
	switch {
	case res.Correct:
		lines = append(lines, correctStyle.Render("Correct!"))
	case res.TimedOut:
		lines = append(lines, incorrectStyle.Render("Time's up! Answer: "+res.CorrectAnswer))
	default:
		lines = append(lines, incorrectStyle.Render(fmt.Sprintf("Wrong: %q. Answer: %s", res.UserAnswer, res.CorrectAnswer)))
	}
	w := res.Word
	lines = append(lines, detailStyle.Render(fmt.Sprintf("%s  %s", w.English, w.Chinese)))
	for _, line := range wrapText(w.ExampleSentence, width) {
		lines = append(lines, detailStyle.Render(line))
	}
	for _, line := range wrapText(w.ExampleTranslation, width) {
		lines = append(lines, detailStyle.Render(line))
	}
	return lines
}

func (m *Model) renderSummary() string {
	if m.summary == nil {
		return ""
	}
	sum := m.summary
	lines := []string{
		promptStyle.Render("Session complete"),
		fmt.Sprintf("Score %d/%d (%.1f%%)", sum.CorrectCount, sum.TotalQuestions, sum.Accuracy),
		fmt.Sprintf("Time %.1fs", sum.DurationSeconds()),
	}
	if m.saveFailed {
		lines = append(lines, incorrectStyle.Render("Session could not be saved; see log."))
	}
	if len(sum.WrongAnswers) > 0 {
		lines = append(lines, "", detailStyle.Render("Review"))
		for _, wa := range sum.WrongAnswers {
			given := wa.UserAnswer
			switch {
			case wa.TimedOut:
				given = "(timed out)"
			case given == "":
				given = "(blank)"
			}
			lines = append(lines, fmt.Sprintf("%s  %s  %s",
				wa.Word.English,
				incorrectStyle.Render(given),
				correctStyle.Render(wa.CorrectAnswer),
			))
		}
	}
	lines = append(lines, "", detailStyle.Render("r: retry  n: new words  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderEmpty() string {
	category := string(m.config.Category)
	if category == "" {
		category = string(model.CategoryAll)
	}
	lines := []string{
		promptStyle.Render("No words to practice"),
		detailStyle.Render(fmt.Sprintf("Category %q has no words. Import some with: tuivoc words import <file>", category)),
		"",
		detailStyle.Render("n: try again  q: quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	total := m.engine.Total()
	if total == 0 {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Progress %d/%d", m.engine.Index(), total),
		fmt.Sprintf("Correct %d", m.engine.CorrectCount()),
	}
	if state := m.engine.State(); state == session.StateActive || state == session.StateAnswered {
		elapsed := m.now().Sub(m.engine.StartedAt())
		segments = append(segments, fmt.Sprintf("Elapsed %ds", int(elapsed.Seconds())))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%%", m.lastAcc))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f%%", m.allAcc))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%4.1fs", d.Seconds())
}
