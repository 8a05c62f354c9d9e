package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"-8", slog.Level(-8)},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestMergeKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig().Merge(Config{Level: "debug"})
	if cfg.Level != "debug" || cfg.Sink != string(SinkStderr) || cfg.MaxSizeMB != 20 {
		t.Errorf("unexpected merge result %+v", cfg)
	}
}

func TestWithEnv(t *testing.T) {
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSink, "none")
	cfg := DefaultConfig().WithEnv()
	if cfg.Format != "json" || cfg.Sink != "none" || cfg.Level != "warn" {
		t.Errorf("unexpected env result %+v", cfg)
	}
}

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pagemap.log")
	cfg := DefaultConfig().Merge(Config{Level: "debug", Format: "json", Sink: "file", File: path})
	logger, closeFn, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("drawn", "scale", 0.5)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"drawn"`) || !strings.Contains(line, `"scale":0.5`) {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestUnknownSinkAndFormat(t *testing.T) {
	if _, _, err := New(DefaultConfig().Merge(Config{Sink: "syslog"})); err == nil {
		t.Error("expected an error for an unknown sink")
	}
	if _, _, err := New(DefaultConfig().Merge(Config{Format: "xml"})); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
