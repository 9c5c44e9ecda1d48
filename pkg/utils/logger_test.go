package utils

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Error("debug logger should enable debug level")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger.Core().Enabled(zapcore.DebugLevel) {
			t.Error("production logger should not enable debug level")
		}
		_ = logger.Sync()
	})
}

func TestNewJSONLogger(t *testing.T) {
	logger, err := NewJSONLogger(true)
	if err != nil {
		t.Fatal(err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug json logger should enable debug level")
	}
	logger, err = NewJSONLogger(false)
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("info json logger should not enable debug level")
	}
}

func TestNewConsoleLogger(t *testing.T) {
	for _, jsonOutput := range []bool{false, true} {
		logger, err := NewConsoleLogger(false, jsonOutput)
		if err != nil {
			t.Fatalf("NewConsoleLogger(false, %v) error: %v", jsonOutput, err)
		}
		if logger.Core().Enabled(zapcore.DebugLevel) {
			t.Error("info logger should not enable debug level")
		}
	}
	logger, err := NewConsoleLogger(true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug console logger should enable debug level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	OrNop(logger).Info("kept")
	if observed.Len() != 1 {
		t.Errorf("expected the given logger to be returned, got %d entries", observed.Len())
	}
}
