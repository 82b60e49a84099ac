package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("SetupLogger(nil) error = nil, want error")
	}
}

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(context.Background(), tt.wantLevel-1) {
				t.Errorf("level below %v should be disabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogger_WithFile(t *testing.T) {
	log, err := SetupLogger(&LogConfig{
		Level:           "info",
		Format:          "json",
		Color:           boolPtr(false),
		FilePath:        filepath.Join(t.TempDir(), "app.log"),
		MaxSizeMB:       1,
		CompressRotated: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not install the slog default")
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	const consoleOnly = 4

	tests := []struct {
		name string
		cfg  LogConfig
		want int
	}{
		{"console only", LogConfig{Level: "info", Format: "text"}, consoleOnly},
		{"file without rotation", LogConfig{FilePath: "app.log"}, consoleOnly + 2},
		{
			name: "file with full rotation",
			cfg: LogConfig{
				FilePath:        "app.log",
				MaxSizeMB:       10,
				RetentionDays:   7,
				MaxBackups:      3,
				CompressRotated: boolPtr(false),
			},
			want: consoleOnly + 6,
		},
		{"rotation ignored without file", LogConfig{MaxSizeMB: 10, MaxBackups: 3}, consoleOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(buildLoggerOpts(&tt.cfg)); got != tt.want {
				t.Errorf("len(buildLoggerOpts) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := map[string]logger.OutputFormat{
		"text":  logger.FormatText,
		"JSON":  logger.FormatJSON,
		"other": logger.FormatCustom,
	}
	for in, want := range tests {
		if got := outputFormat(in); got != want {
			t.Errorf("outputFormat(%q) = %v, want %v", in, got, want)
		}
	}
}
