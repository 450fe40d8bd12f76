package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat(FormatJSON), WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { _ = Init() })
	_ = SetLevelString("info")

	Named("progression").Info(context.Background(), "xp awarded",
		Int("amount", 50),
		Bool("level_up", false),
		Duration("took", time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "xp awarded" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["component"] != "progression" {
		t.Errorf("unexpected component: %v", entry["component"])
	}
	if entry["amount"] != float64(50) {
		t.Errorf("unexpected amount: %v", entry["amount"])
	}
	if !strings.Contains(entry["source"].(string), "logger_test.go") {
		t.Errorf("source should point at the caller, got %v", entry["source"])
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	t.Cleanup(func() {
		_ = SetLevelString("info")
		_ = Init()
	})

	if err := SetLevelString("WARN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	Get().Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should pass, got %q", buf.String())
	}

	if err := SetLevelString("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestNop(t *testing.T) {
	Nop().Error(context.Background(), "discarded")
}
