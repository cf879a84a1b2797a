package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"invalid defaults to info", "invalid", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.TODO(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug {
				if log.Enabled(context.TODO(), tt.wantLevel-1) {
					t.Errorf("expected level %v to be disabled (configured: %v)", tt.wantLevel-1, tt.wantLevel)
				}
			}
		})
	}
}

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestSetupLogger_ConsoleAndFile(t *testing.T) {
	log, err := SetupLogger(&LogConfig{
		Level:    "info",
		Format:   "json",
		FilePath: filepath.Join(t.TempDir(), "quizhub.log"),
	})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()
}

func TestSetupLogger_SetsDefault(t *testing.T) {
	log, err := SetupLogger(&LogConfig{Level: "warn", Format: "text", Color: boolPtr(false)})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not set slog.Default()")
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	// Level, Middleware, ConsoleFormat, ConsoleColor.
	const baseCount = 4
	// FilePath + FileFormat.
	const fileBaseCount = baseCount + 2

	tests := []struct {
		name      string
		cfg       *LogConfig
		wantCount int
	}{
		{"console text", &LogConfig{Level: "info", Format: "text"}, baseCount},
		{"unknown format", &LogConfig{Level: "info", Format: "whatever"}, baseCount},
		{"rotation ignored without file", &LogConfig{Level: "info", Format: "text", MaxSizeMB: 10}, baseCount},
		{"file only", &LogConfig{Level: "info", Format: "json", FilePath: "/tmp/q.log"}, fileBaseCount},
		{"file with compress false", &LogConfig{Level: "info", Format: "json", FilePath: "/tmp/q.log", CompressRotated: boolPtr(false)}, fileBaseCount + 1},
		{
			name: "file with all rotation fields",
			cfg: &LogConfig{
				Level: "info", Format: "json", FilePath: "/tmp/q.log",
				MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5,
				CompressRotated: boolPtr(true),
			},
			wantCount: fileBaseCount + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := BuildLoggerOpts(tt.cfg)
			if len(opts) != tt.wantCount {
				t.Errorf("option count = %d, want %d", len(opts), tt.wantCount)
			}
		})
	}

	if BuildLoggerOpts(nil) != nil {
		t.Error("expected nil options for nil config")
	}
}

func TestBuildLoggerOpts_ProducesValidLogger(t *testing.T) {
	cfg := &LogConfig{
		Level: "debug", Format: "json", FilePath: filepath.Join(t.TempDir(), "opts.log"),
		MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3,
	}
	log, err := logger.New(BuildLoggerOpts(cfg)...)
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	defer log.Close()

	if !log.Enabled(context.TODO(), slog.LevelDebug) {
		t.Error("expected debug to be enabled")
	}
}
