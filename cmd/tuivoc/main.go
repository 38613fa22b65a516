// Package main provides the CLI entrypoint for tuivoc.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/generator"
	"github.com/verte-zerg/tuivoc/internal/logging"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/session"
	"github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/timer"
	"github.com/verte-zerg/tuivoc/internal/tui"
	"github.com/verte-zerg/tuivoc/internal/wordlist"
)

const (
	defaultCategory    = "all"
	defaultCount       = 10
	defaultVariant     = "choice"
	defaultCurveWindow = 20
	defaultMissedTop   = 10
	defaultImportCat   = "basic"
	defaultLogLevel    = "info"
)

var (
	defaultTimeLimit = session.DefaultTimeLimit.Seconds()
	defaultTickMs    = int(timer.DefaultInterval / time.Millisecond)
)

var (
	practiceCategory  string
	practiceCount     int
	practiceVariant   string
	practiceTimeLimit float64
	practiceOptions   int
	practiceTickMs    int
	logLevel          string

	statsVariant     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsMissedTop   int
	statsSession     string

	importCategory string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuivoc",
		Short:         "TUI vocabulary quiz trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceCategory, "category", defaultCategory, "word category (all, basic, cet4, cet6, ielts, toefl)")
	rootCmd.Flags().IntVar(&practiceCount, "count", defaultCount, "questions per session")
	rootCmd.Flags().StringVar(&practiceVariant, "variant", defaultVariant, "test variant (choice, fill, listening)")
	rootCmd.Flags().Float64Var(&practiceTimeLimit, "time-limit", defaultTimeLimit, "seconds per question")
	rootCmd.Flags().IntVar(&practiceOptions, "options", generator.DefaultDistractors, "distractors per choice question")
	rootCmd.Flags().IntVar(&practiceTickMs, "tick-ms", defaultTickMs, "countdown tick interval in milliseconds")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "category", &practiceCategory, fileCfg.Practice.Category)
	applyIntConfig(cmd, "count", &practiceCount, fileCfg.Practice.Count)
	applyStringConfig(cmd, "variant", &practiceVariant, fileCfg.Practice.Variant)
	applyFloatConfig(cmd, "time-limit", &practiceTimeLimit, fileCfg.Practice.TimeLimit)
	applyIntConfig(cmd, "options", &practiceOptions, fileCfg.Practice.Options)
	applyIntConfig(cmd, "tick-ms", &practiceTickMs, fileCfg.Practice.TickMs)

	cfg, err := buildPracticeConfig(practiceCategory, practiceCount, practiceVariant, practiceTimeLimit, practiceOptions, practiceTickMs)
	if err != nil {
		return err
	}

	logger, err := openLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		// Sync fails on some file descriptors; best-effort.
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	pool, err := st.ListWords(context.Background(), cfg.Category)
	if err != nil {
		return fmt.Errorf("failed to load words: %w", err)
	}
	if len(pool) == 0 {
		logger.Warn("empty word pool", zap.String("category", string(cfg.Category)))
	}

	gen := generator.New(generator.WithDistractors(cfg.Distractors))
	logger.Info("practice started",
		zap.String("category", string(cfg.Category)),
		zap.String("variant", cfg.Variant.String()),
		zap.Int("pool", len(pool)),
		zap.Int("distractors", gen.Distractors()),
		zap.Duration("time_limit", cfg.TimeLimit),
	)
	m := tui.NewModel(cfg, st, gen, pool, logger)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildPracticeConfig(category string, count int, variant string, timeLimit float64, options, tickMs int) (model.Config, error) {
	cat, err := model.ParseCategory(category)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --category value: %w", err)
	}
	v, err := model.ParseTestVariant(variant)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --variant value: %w", err)
	}
	cfg := model.Config{
		Category:    cat,
		Count:       count,
		Variant:     v,
		TimeLimit:   time.Duration(timeLimit * float64(time.Second)),
		Distractors: options,
		TickEvery:   time.Duration(tickMs) * time.Millisecond,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func openLogger(cmd *cobra.Command, logCfg config.LogConfig) (*zap.Logger, error) {
	logger, err := logging.New(logOptions(cmd, logCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

func logOptions(cmd *cobra.Command, logCfg config.LogConfig) logging.Options {
	level := logLevel
	if !cmd.Flags().Changed("log-level") && logCfg.Level != nil {
		level = *logCfg.Level
	}
	path := config.DefaultLogPath()
	if logCfg.File != nil && strings.TrimSpace(*logCfg.File) != "" {
		path = *logCfg.File
	}
	opts := logging.Options{Path: path, Level: level}
	if logCfg.MaxSize != nil {
		opts.MaxSizeMB = *logCfg.MaxSize
	}
	if logCfg.MaxBackups != nil {
		opts.MaxBackups = *logCfg.MaxBackups
	}
	return opts
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List word counts per category",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	counts, err := st.CountWordsByCategory(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count words: %w", err)
	}
	total := 0
	for _, cat := range model.Categories {
		total += counts[cat]
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-6s %d\n", cat, counts[cat]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if total == 0 {
		logErrln("No words imported yet. Import with: tuivoc words import <file>")
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsVariant, "variant", "", "test variant filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsMissedTop, "missed-top", defaultMissedTop, "number of most missed words to show")
	cmd.Flags().StringVar(&statsSession, "session", "", "show the wrong-answer ledger of one session")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsVariant != "" {
		v, err := model.ParseTestVariant(statsVariant)
		if err != nil {
			return fmt.Errorf("invalid --variant value: %w", err)
		}
		statsVariant = v.String()
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Variant:     statsVariant,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		MissedTop:   statsMissedTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsSession != "" {
		ledger, err := st.ListWrongAnswers(context.Background(), statsSession)
		if err != nil {
			return fmt.Errorf("failed to load session ledger: %w", err)
		}
		if err := stats.RenderLedger(cmd.OutOrStdout(), statsSession, ledger); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(out, "Variants: %s\n\n", strings.Join(stats.VariantBreakdown(report.Sessions), ", ")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(out, report.Sessions, cfg.CurveWindow, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	windowTitle := fmt.Sprintf("Most Missed (last %d sessions)", len(report.WindowSessionIDs))
	if err := stats.RenderMissedTable(out, windowTitle, report.MissedWindow, cfg.MissedTop); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderMissedTable(out, "Most Missed (all shown sessions)", report.MissedAll, cfg.MissedTop); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the word pool",
	}
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a TSV or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsImportCmd,
	}
	importCmd.Flags().StringVar(&importCategory, "category", defaultImportCat, "category for rows without one")
	cmd.AddCommand(importCmd)
	return cmd
}

func runWordsImportCmd(cmd *cobra.Command, args []string) error {
	cat, err := model.ParseCategory(importCategory)
	if err != nil {
		return fmt.Errorf("invalid --category value: %w", err)
	}
	if cat == model.CategoryAll {
		return fmt.Errorf("--category must name a concrete category")
	}
	words, err := wordlist.LoadWords(args[0], cat)
	if err != nil {
		return fmt.Errorf("failed to load words: %w", err)
	}
	words = wordlist.Dedupe(words)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := st.UpsertWords(context.Background(), words); err != nil {
		return fmt.Errorf("failed to import words: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words from %s\n", len(words), args[0]); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuivoc configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# category = %q          # all, basic, cet4, cet6, ielts, toefl
# count = %d                 # Questions per session
# variant = %q         # choice, fill, listening
# time-limit = %.1f        # Seconds per question
# options = %d                # Distractors per choice question
# tick-ms = %d              # Countdown tick interval

[log]
# level = %q            # debug, info, warn, error
# file = %q
# max-size = %d               # Megabytes before the log rotates
# max-backups = %d            # Rotated files to keep
`,
		defaultCategory,
		defaultCount,
		defaultVariant,
		defaultTimeLimit,
		generator.DefaultDistractors,
		defaultTickMs,
		defaultLogLevel,
		config.DefaultLogPath(),
		logging.DefaultMaxSizeMB,
		logging.DefaultMaxBackups,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if cfg.TimeLimit <= 0 {
		return fmt.Errorf("--time-limit must be > 0")
	}
	if cfg.Distractors < 0 {
		return fmt.Errorf("--options must be >= 0")
	}
	if cfg.Distractors > 8 {
		return fmt.Errorf("--options must be <= 8")
	}
	if cfg.TickEvery <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if cfg.TickEvery > cfg.TimeLimit {
		return fmt.Errorf("--tick-ms must not exceed --time-limit")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
