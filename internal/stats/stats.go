// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/session"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	curveLabel          = "Accuracy "
)

// SessionMetrics computes accuracy (percent) and average seconds per question.
func SessionMetrics(correct, total int, durationMs int64) (accuracy, secsPerQuestion float64) {
	accuracy = session.Accuracy(correct, total)
	if total > 0 && durationMs > 0 {
		secsPerQuestion = float64(durationMs) / 1000.0 / float64(total)
	}
	return accuracy, secsPerQuestion
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAcc, totalPace float64
	var totalMs int64
	questions, correct := 0, 0
	bestAcc := 0.0
	for _, s := range sessions {
		acc, pace := SessionMetrics(s.CorrectCount, s.TotalQuestions, s.DurationMs)
		totalAcc += acc
		totalPace += pace
		totalMs += s.DurationMs
		questions += s.TotalQuestions
		correct += s.CorrectCount
		if acc > bestAcc {
			bestAcc = acc
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Questions: %d (%d correct)", questions, correct),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Best Accuracy: %.2f%%", bestAcc),
		fmt.Sprintf("Avg Pace: %.1fs/question", totalPace/count),
		fmt.Sprintf("Total Time: %s", formatDuration(totalMs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints the moving-average accuracy as a sparkline that fits width.
// A non-positive width uses the terminal width.
func RenderCurve(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	if width <= 0 {
		width = TerminalWidth()
	}
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i], _ = SessionMetrics(s.CorrectCount, s.TotalQuestions, s.DurationMs)
	}
	accs = MovingAverage(accs, window)
	room := width - len(curveLabel)
	if room < 1 {
		room = 1
	}
	if len(accs) > room {
		accs = accs[len(accs)-room:]
	}
	if _, err := fmt.Fprintf(w, "Learning Curve (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", curveLabel, Sparkline(accs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%smin %.1f%%  max %.1f%%  last %.1f%%\n\n", strings.Repeat(" ", len(curveLabel)),
		minOf(accs), maxOf(accs), accs[len(accs)-1]); err != nil {
		return err
	}
	return nil
}

// RenderMissedTable prints the most missed words under title.
func RenderMissedTable(w io.Writer, title string, aggs []model.WordAggregate, top int) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(aggs) == 0 {
		_, err := fmt.Fprint(w, "No missed words found.\n\n")
		return err
	}
	rows := TopMissedWords(aggs, top)
	headers := []string{"Word", "Answer", "Misses", "Timeouts"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.English,
			r.CorrectAnswer,
			fmt.Sprintf("%d", r.Misses),
			fmt.Sprintf("%d", r.TimedOut),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderLedger prints the wrong answers of one session in answer order.
func RenderLedger(w io.Writer, sessionID string, ledger []model.WrongAnswerRecord) error {
	if len(ledger) == 0 {
		_, err := fmt.Fprintf(w, "No wrong answers recorded for session %s.\n", sessionID)
		return err
	}
	if _, err := fmt.Fprintf(w, "Session %s\n", sessionID); err != nil {
		return err
	}
	headers := []string{"#", "Word", "Meaning", "Your Answer", "Answer", "Result"}
	rows := make([][]string, 0, len(ledger))
	for i, rec := range ledger {
		result := "wrong"
		if rec.TimedOut {
			result = "timeout"
		}
		given := rec.UserAnswer
		if given == "" {
			given = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.Word.English,
			rec.Word.Chinese,
			given,
			rec.CorrectAnswer,
			result,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TerminalWidth returns the stdout width, or a fallback when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// VariantBreakdown counts sessions per variant, sorted by name.
func VariantBreakdown(sessions []model.SessionAggregate) []string {
	counts := map[string]int{}
	for _, s := range sessions {
		counts[s.Variant.String()]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s: %d", name, counts[name]))
	}
	return out
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%dh%02dm", secs/3600, (secs%3600)/60)
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
