// ABOUTME: Tests for logger construction and level parsing
// ABOUTME: Verifies LOG_LEVEL handling and level filtering
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"INFO", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"Warn", log.WarnLevel, false},
		{"WARNING", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"critical", log.FatalLevel, false},
		{"chatty", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info("hidden message")
	logger.Warn("visible message", "source", "notes.txt")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "notes.txt") {
		t.Errorf("key/value pair missing: %q", out)
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New("nonsense", &buf)

	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "falling back to info level") {
		t.Errorf("expected fallback warning, got %q", buf.String())
	}
}
