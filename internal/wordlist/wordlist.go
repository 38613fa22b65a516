// Package wordlist loads vocabulary files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// yamlWord is one entry of a YAML word file.
type yamlWord struct {
	ID                 string `yaml:"id"`
	English            string `yaml:"english"`
	Chinese            string `yaml:"chinese"`
	Phonetic           string `yaml:"phonetic"`
	PartOfSpeech       string `yaml:"pos"`
	Category           string `yaml:"category"`
	Difficulty         int    `yaml:"difficulty"`
	ExampleSentence    string `yaml:"example"`
	ExampleTranslation string `yaml:"translation"`
}

// LoadWords reads a .tsv/.txt or .yaml/.yml word file. Entries without a
// category get defaultCategory.
func LoadWords(path string, defaultCategory model.Category) ([]model.Word, error) {
	var (
		words []model.Word
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		words, err = loadYAML(path, defaultCategory)
	default:
		words, err = loadTSV(path, defaultCategory)
	}
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// loadTSV reads tab-separated lines:
// english, chinese, phonetic, pos, category, difficulty, example, translation.
// Only the first two columns are required.
func loadTSV(path string, defaultCategory model.Category) ([]model.Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []model.Word
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return nil, fmt.Errorf("line %d: expected at least english and chinese columns", lineNo)
		}
		col := func(i int) string {
			if i < len(cols) {
				return strings.TrimSpace(cols[i])
			}
			return ""
		}
		w := model.Word{
			English:            col(0),
			Chinese:            col(1),
			Phonetic:           col(2),
			PartOfSpeech:       col(3),
			Category:           model.Category(col(4)),
			ExampleSentence:    col(6),
			ExampleTranslation: col(7),
		}
		if d := col(5); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid difficulty %q", lineNo, d)
			}
			w.Difficulty = n
		}
		w, err = normalize(w, defaultCategory)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func loadYAML(path string, defaultCategory model.Category) ([]model.Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []yamlWord
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode word file: %w", err)
	}
	words := make([]model.Word, 0, len(entries))
	for i, e := range entries {
		w, err := normalize(model.Word{
			ID:                 e.ID,
			English:            strings.TrimSpace(e.English),
			Chinese:            strings.TrimSpace(e.Chinese),
			Phonetic:           e.Phonetic,
			PartOfSpeech:       e.PartOfSpeech,
			Category:           model.Category(e.Category),
			Difficulty:         e.Difficulty,
			ExampleSentence:    e.ExampleSentence,
			ExampleTranslation: e.ExampleTranslation,
		}, defaultCategory)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		words = append(words, w)
	}
	return words, nil
}

func normalize(w model.Word, defaultCategory model.Category) (model.Word, error) {
	if w.Category == "" {
		w.Category = defaultCategory
	}
	cat, err := model.ParseCategory(string(w.Category))
	if err != nil {
		return model.Word{}, err
	}
	if cat == model.CategoryAll {
		return model.Word{}, fmt.Errorf("word %q needs a concrete category", w.English)
	}
	w.Category = cat
	if !IsEnglishTerm(w.English) {
		return model.Word{}, fmt.Errorf("invalid english term %q", w.English)
	}
	if w.Chinese == "" {
		return model.Word{}, fmt.Errorf("missing translation for %q", w.English)
	}
	if w.ID == "" {
		w.ID = WordID(w)
	}
	return w, nil
}

// WordID derives a stable ID from category and english text.
func WordID(w model.Word) string {
	return string(w.Category) + ":" + strings.ToLower(w.English)
}
