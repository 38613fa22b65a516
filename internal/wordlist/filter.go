// Package wordlist provides word list filtering helpers.
package wordlist

import "github.com/verte-zerg/tuivoc/internal/model"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(model.Word) bool

// FilterForCategory keeps words of one category. CategoryAll keeps everything.
func FilterForCategory(category model.Category) FilterFunc {
	if category == model.CategoryAll || category == "" {
		return func(model.Word) bool { return true }
	}
	return func(w model.Word) bool { return w.Category == category }
}

// Filter returns the words accepted by keep.
func Filter(words []model.Word, keep FilterFunc) []model.Word {
	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// Dedupe drops later words with an ID that was already seen.
func Dedupe(words []model.Word) []model.Word {
	seen := make(map[string]struct{}, len(words))
	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}
		out = append(out, w)
	}
	return out
}

// IsEnglishTerm accepts ASCII letters with inner spaces, hyphens and apostrophes.
func IsEnglishTerm(term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i < len(term); i++ {
		ch := term[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case (ch == ' ' || ch == '-' || ch == '\'') && i > 0 && i < len(term)-1:
		default:
			return false
		}
	}
	return true
}
