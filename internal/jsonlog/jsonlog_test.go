package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintInfo("pool established", map[string]string{"addr": ":4000"})

	var entry struct {
		Level      string            `json:"level"`
		Message    string            `json:"message"`
		Properties map[string]string `json:"properties"`
		Trace      string            `json:"trace"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q, want INFO", entry.Level)
	}
	if entry.Message != "pool established" {
		t.Errorf("message = %q, want pool established", entry.Message)
	}
	if entry.Properties["addr"] != ":4000" {
		t.Errorf("properties = %v, want addr=:4000", entry.Properties)
	}
	if entry.Trace != "" {
		t.Error("INFO entry should not include a stack trace")
	}
}

func TestLoggerErrorIncludesTrace(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.PrintError(errors.New("boom"), nil)

	var entry struct {
		Level string `json:"level"`
		Trace string `json:"trace"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry.Level != "ERROR" {
		t.Errorf("level = %q, want ERROR", entry.Level)
	}
	if entry.Trace == "" {
		t.Error("ERROR entry should include a stack trace")
	}
}

func TestLoggerMinLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.PrintInfo("should be dropped", nil)
	if buf.Len() != 0 {
		t.Errorf("entry below the minimum level was written: %s", buf.String())
	}

	l.PrintError(errors.New("kept"), nil)
	if buf.Len() == 0 {
		t.Error("entry at the minimum level was dropped")
	}
}
