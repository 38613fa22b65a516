// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for words and session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			english TEXT NOT NULL,
			chinese TEXT NOT NULL,
			phonetic TEXT NOT NULL,
			part_of_speech TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			example_sentence TEXT NOT NULL,
			example_translation TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			category TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			time_limit_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_wrong_answers (
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			word_id TEXT NOT NULL,
			english TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_words_category ON words(category);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_wrong_answers_word ON session_wrong_answers(word_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertWords inserts or replaces words by ID.
func (s *Store) UpsertWords(ctx context.Context, words []model.Word) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO words (id, english, chinese, phonetic, part_of_speech, category, difficulty, example_sentence, example_translation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			english = excluded.english,
			chinese = excluded.chinese,
			phonetic = excluded.phonetic,
			part_of_speech = excluded.part_of_speech,
			category = excluded.category,
			difficulty = excluded.difficulty,
			example_sentence = excluded.example_sentence,
			example_translation = excluded.example_translation`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, w := range words {
		if _, err = stmt.ExecContext(ctx, w.ID, w.English, w.Chinese, w.Phonetic, w.PartOfSpeech,
			string(w.Category), w.Difficulty, w.ExampleSentence, w.ExampleTranslation); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListWords returns the words of a category ordered by ID. CategoryAll returns every word.
func (s *Store) ListWords(ctx context.Context, category model.Category) ([]model.Word, error) {
	filter := string(category)
	if category == model.CategoryAll {
		filter = ""
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, english, chinese, phonetic, part_of_speech, category, difficulty, example_sentence, example_translation
		 FROM words
		 WHERE (? = '' OR category = ?)
		 ORDER BY id ASC`, filter, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []model.Word
	for rows.Next() {
		var w model.Word
		var cat string
		if err := rows.Scan(&w.ID, &w.English, &w.Chinese, &w.Phonetic, &w.PartOfSpeech, &cat,
			&w.Difficulty, &w.ExampleSentence, &w.ExampleTranslation); err != nil {
			return nil, err
		}
		w.Category = model.Category(cat)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// CountWordsByCategory returns the number of stored words per category.
func (s *Store) CountWordsByCategory(ctx context.Context) (map[model.Category]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM words GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := map[model.Category]int{}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[model.Category(cat)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// InsertSession stores a completed session and its wrong-answer ledger.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (err error) {
	if rec.ID == "" {
		return fmt.Errorf("session id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, variant, category, started_at, ended_at, total_questions, correct_count, duration_ms, time_limit_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Variant.String(),
		string(rec.Category),
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.TotalQuestions,
		rec.CorrectCount,
		rec.DurationMs,
		rec.TimeLimitMs,
	)
	if err != nil {
		return err
	}

	if len(rec.WrongAnswers) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_wrong_answers (session_id, position, word_id, english, user_answer, correct_answer, timed_out)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, wa := range rec.WrongAnswers {
			if _, err = stmt.ExecContext(ctx, rec.ID, i, wa.Word.ID, wa.Word.English, wa.UserAnswer, wa.CorrectAnswer, boolToInt(wa.TimedOut)); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Variant != "" {
		clauses = append(clauses, "variant = ?")
		args = append(args, cfg.Variant)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, variant, ended_at, total_questions, correct_count, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var variant, endedAt string
		if err := rows.Scan(&agg.SessionID, &variant, &endedAt, &agg.TotalQuestions, &agg.CorrectCount, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		v, err := model.ParseTestVariant(variant)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Variant = v
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListMissedWords aggregates wrong answers across the given sessions.
func (s *Store) ListMissedWords(ctx context.Context, sessionIDs []string) ([]model.WordAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT word_id, MAX(english), MAX(correct_answer), COUNT(*) AS misses,
		SUM(timed_out) AS timed_out
		FROM session_wrong_answers
		WHERE session_id IN (%s)
		GROUP BY word_id`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.WordID, &agg.English, &agg.CorrectAnswer, &agg.Misses, &agg.TimedOut); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListWrongAnswers returns the ledger of one session in answer order.
func (s *Store) ListWrongAnswers(ctx context.Context, sessionID string) ([]model.WrongAnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT wa.word_id, wa.english, COALESCE(w.chinese, ''), wa.user_answer, wa.correct_answer, wa.timed_out
		 FROM session_wrong_answers wa
		 LEFT JOIN words w ON w.id = wa.word_id
		 WHERE wa.session_id = ?
		 ORDER BY wa.position ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.WrongAnswerRecord
	for rows.Next() {
		var rec model.WrongAnswerRecord
		var timedOut int
		if err := rows.Scan(&rec.Word.ID, &rec.Word.English, &rec.Word.Chinese, &rec.UserAnswer, &rec.CorrectAnswer, &timedOut); err != nil {
			return nil, err
		}
		rec.TimedOut = timedOut != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
