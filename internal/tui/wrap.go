// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const blank = "____"

// wrapText breaks text into lines no wider than width terminal cells.
// Latin words wrap at spaces; runs of CJK text may break between any runes.
func wrapText(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineWidth = 0
	}
	for _, token := range tokenize(text) {
		w := runewidth.StringWidth(token)
		if token == " " {
			if lineWidth == 0 {
				continue
			}
			if lineWidth+1 > width {
				flush()
				continue
			}
			line.WriteString(token)
			lineWidth++
			continue
		}
		if lineWidth+w > width && lineWidth > 0 {
			flush()
		}
		if w > width {
			// Hard-break a token that cannot fit on its own line.
			for _, r := range token {
				rw := runewidth.RuneWidth(r)
				if lineWidth+rw > width && lineWidth > 0 {
					flush()
				}
				line.WriteRune(r)
				lineWidth += rw
			}
			continue
		}
		line.WriteString(token)
		lineWidth += w
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}

// tokenize splits text into words, single spaces and individual wide runes.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	emit := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			emit()
			tokens = append(tokens, " ")
		case runewidth.RuneWidth(r) > 1:
			emit()
			tokens = append(tokens, string(r))
		default:
			word.WriteRune(r)
		}
	}
	emit()
	return tokens
}

// blankOut hides every case-insensitive occurrence of word in sentence.
func blankOut(sentence, word string) string {
	if word == "" || sentence == "" {
		return sentence
	}
	lowerSentence := strings.ToLower(sentence)
	lowerWord := strings.ToLower(word)
	if len(lowerSentence) != len(sentence) || len(lowerWord) != len(word) {
		return strings.ReplaceAll(sentence, word, blank)
	}
	var b strings.Builder
	for {
		idx := strings.Index(lowerSentence, lowerWord)
		if idx < 0 {
			b.WriteString(sentence)
			return b.String()
		}
		b.WriteString(sentence[:idx])
		b.WriteString(blank)
		sentence = sentence[idx+len(word):]
		lowerSentence = lowerSentence[idx+len(lowerWord):]
	}
}
