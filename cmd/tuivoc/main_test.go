package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/model"
)

func TestBuildPracticeConfig(t *testing.T) {
	cfg, err := buildPracticeConfig("CET4", 5, "fill", 7.5, 2, 50)
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Category != model.CategoryCET4 || cfg.Variant != model.FillInBlank {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TimeLimit != 7500*time.Millisecond || cfg.TickEvery != 50*time.Millisecond || cfg.Distractors != 2 {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
}

func TestBuildPracticeConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		count     int
		variant   string
		timeLimit float64
		options   int
		tickMs    int
		want      string
	}{
		{"category", "gre", 5, "choice", 15, 3, 100, "--category"},
		{"variant", "all", 5, "essay", 15, 3, 100, "--variant"},
		{"count", "all", 0, "choice", 15, 3, 100, "--count"},
		{"time limit", "all", 5, "choice", -1, 3, 100, "--time-limit"},
		{"options", "all", 5, "choice", 15, 9, 100, "--options"},
		{"tick", "all", 5, "choice", 1, 3, 2000, "--tick-ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildPracticeConfig(tt.category, tt.count, tt.variant, tt.timeLimit, tt.options, tt.tickMs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %s error, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var count int
	var variant string
	cmd.Flags().IntVar(&count, "count", 10, "")
	cmd.Flags().StringVar(&variant, "variant", "choice", "")
	if err := cmd.Flags().Set("count", "3"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	fileCount := 20
	fileVariant := "fill"
	applyIntConfig(cmd, "count", &count, &fileCount)
	applyStringConfig(cmd, "variant", &variant, &fileVariant)
	if count != 3 {
		t.Fatalf("expected flag value to win, got %d", count)
	}
	if variant != "fill" {
		t.Fatalf("expected config value to apply, got %q", variant)
	}
	applyStringConfig(cmd, "variant", &variant, nil)
	if variant != "fill" {
		t.Fatalf("nil config value must not change target")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Practice.Count != nil || cfg.Log.Level != nil {
		t.Fatalf("expected commented template to leave values unset: %+v", cfg)
	}
}

func TestLogOptionsFromConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "")

	level := "debug"
	file := filepath.Join(t.TempDir(), "tuivoc.log")
	size := 12
	backups := 7
	opts := logOptions(cmd, config.LogConfig{Level: &level, File: &file, MaxSize: &size, MaxBackups: &backups})
	if opts.Level != "debug" || opts.Path != file || opts.MaxSizeMB != 12 || opts.MaxBackups != 7 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	if err := cmd.Flags().Set("log-level", "warn"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	opts = logOptions(cmd, config.LogConfig{Level: &level})
	if opts.Level != "warn" || opts.Path != config.DefaultLogPath() || opts.MaxSizeMB != 0 {
		t.Fatalf("expected flag level and default path, got %+v", opts)
	}
}
