package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextOutputSortsKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatText, App: "bot", Out: &buf})

	l.Info("fed", Fields{"chat_id": int64(42), "period": "morning"})

	line := strings.TrimSpace(buf.String())
	wantInOrder := []string{"app=bot", "chat_id=42", "level=info", "msg=fed", "period=morning", "ts="}
	last := -1
	for _, part := range wantInOrder {
		idx := strings.Index(line, part)
		if idx == -1 {
			t.Fatalf("missing %q in %q", part, line)
		}
		if idx < last {
			t.Fatalf("%q out of order in %q", part, line)
		}
		last = idx
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, Out: &buf})

	l.Warn("reset failed", Fields{"chat_id": int64(7)})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" || entry["msg"] != "reset failed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["chat_id"] != float64(7) {
		t.Fatalf("chat_id = %v", entry["chat_id"])
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf})

	l.Debug("quiet", nil)
	l.Info("quiet", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected silence, got %q", buf.String())
	}

	l.Error("loud", nil)
	if buf.Len() == 0 {
		t.Fatal("expected error line")
	}
}

func TestWithBindsFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Out: &buf})

	bound := l.With(Fields{"component": "scheduler"})
	bound.Info("pass done", nil)

	if !strings.Contains(buf.String(), "component=scheduler") {
		t.Fatalf("bound field missing: %q", buf.String())
	}

	// el logger original no debe heredar el campo
	buf.Reset()
	l.Info("plain", nil)
	if strings.Contains(buf.String(), "component=scheduler") {
		t.Fatalf("parent logger polluted: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"INFO":    Info,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"bogus":   Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
