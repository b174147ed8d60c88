package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesJSONAtLevel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	if err := Init(Config{Level: "info", Format: "json", OutputPath: out}); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { globalLogger = zap.NewNop() })

	L().Debug("hidden")
	L().Info("shown", zap.Int("records", 12))
	Sync()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "hidden") || !strings.Contains(text, `"records":12`) {
		t.Fatalf("unexpected log output: %s", text)
	}

	SetLevel("error")
	if globalLevel.Level() != zapcore.ErrorLevel {
		t.Fatalf("level not updated: %v", globalLevel.Level())
	}
	SetLevel("bogus")
	if globalLevel.Level() != zapcore.ErrorLevel {
		t.Fatalf("invalid level should be ignored")
	}
}
