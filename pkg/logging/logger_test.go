package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/instacommunity/backend/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "json info", level: "INFO", format: "json"},
		{name: "text debug", level: "DEBUG", format: "text"},
		{name: "bad level falls back to info", level: "bogus", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("InitLogger failed: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
		})
	}
}

func TestInitLoggerLevels(t *testing.T) {
	cfg := &config.LoggingConfig{Level: "WARN", Format: "json"}
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}

	if Logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug should be disabled at WARN level")
	}
	if !Logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Error should be enabled at WARN level")
	}
}

func TestWithComponent(t *testing.T) {
	cfg := &config.LoggingConfig{Level: "INFO", Format: "json"}
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}

	child := WithComponent("feed")
	if child == nil {
		t.Fatal("WithComponent returned nil")
	}
}
