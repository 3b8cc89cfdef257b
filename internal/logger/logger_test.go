package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textchecker/internal/models"
	"textchecker/internal/version"
)

var testVersion = version.Info{
	Version:    "v1.2.3",
	GitCommit:  "abc1234",
	BuildDate:  "2026-02-21T10:00:00Z",
	InstanceID: "instance-1",
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  slog.Level
		expectErr bool
	}{
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "info", input: "info", expected: slog.LevelInfo},
		{name: "warn", input: "warn", expected: slog.LevelWarn},
		{name: "error", input: "error", expected: slog.LevelError},
		{name: "uppercase", input: "DEBUG", expected: slog.LevelDebug},
		{name: "mixed case", input: "Info", expected: slog.LevelInfo},
		{name: "invalid", input: "invalid", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("expected error for input %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
				return
			}
			if level != tt.expected {
				t.Errorf("expected level %v, got %v", tt.expected, level)
			}
		})
	}
}

func TestSetupStdoutAndStderr(t *testing.T) {
	for _, output := range []string{"stdout", "stderr"} {
		t.Run(output, func(t *testing.T) {
			cfg := models.LoggingConfig{Level: "info", Format: "json", Output: output}

			logger, closer, err := Setup(cfg, testVersion)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if closer != nil {
				t.Errorf("expected nil closer for %s", output)
			}
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestSetupFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	cfg := models.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, closer, err := Setup(cfg, testVersion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closer == nil {
		t.Fatal("expected non-nil closer for file output")
	}
	defer closer.Close()

	logger.Info("text checked", "language", "english")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, data)
	}
	if entry["msg"] != "text checked" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["language"] != "english" {
		t.Errorf("unexpected language: %v", entry["language"])
	}
	if entry["version"] != "v1.2.3" || entry["git_commit"] != "abc1234" || entry["instance_id"] != "instance-1" {
		t.Errorf("missing version fields: %v", entry)
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.LoggingConfig
	}{
		{"file without path", models.LoggingConfig{Level: "info", Format: "json", Output: "file"}},
		{"unwritable path", models.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: "/nonexistent/directory/path/test.log"}},
		{"invalid level", models.LoggingConfig{Level: "invalid", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Setup(tt.cfg, testVersion); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "text", slog.LevelInfo, testVersion)

	logger.Info("config loaded", "api_key", "sk-ant-secret", "access_password", "hunter2", "provider", "anthropic")

	output := buf.String()
	if strings.Contains(output, "sk-ant-secret") || strings.Contains(output, "hunter2") {
		t.Errorf("secret leaked into log output: %s", output)
	}
	if !strings.Contains(output, "api_key="+redacted) {
		t.Errorf("expected redacted api_key, got: %s", output)
	}
	if !strings.Contains(output, "provider=anthropic") {
		t.Errorf("non-sensitive attribute missing: %s", output)
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "text", slog.LevelWarn, testVersion)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Error("info message should have been filtered by warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("warn message should have appeared")
	}
}

func TestOpenWriter(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		filePath  string
		expectErr bool
	}{
		{name: "stdout", output: "stdout"},
		{name: "stderr", output: "stderr"},
		{name: "default fallback", output: "anything"},
		{name: "file missing path", output: "file", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, closer, err := openWriter(tt.output, tt.filePath)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if writer == nil {
				t.Error("expected non-nil writer")
			}
			if closer != nil {
				closer.Close()
			}
		})
	}
}
