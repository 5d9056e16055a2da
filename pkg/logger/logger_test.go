package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Format: JSON, Output: &buf, Service: "hotel"})

	log.Info("room created", "room_id", "42")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry[SERVICE] != "hotel" {
		t.Errorf("expected service attribute 'hotel', got %v", entry[SERVICE])
	}
	if entry["room_id"] != "42" {
		t.Errorf("expected room_id '42', got %v", entry["room_id"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logged  bool
		logFunc func(*Logger)
	}{
		{name: "debug dropped at info", level: INFO, logged: false, logFunc: func(l *Logger) { l.Debug("x") }},
		{name: "debug kept at debug", level: DEBUG, logged: true, logFunc: func(l *Logger) { l.Debug("x") }},
		{name: "warn dropped at error", level: ERROR, logged: false, logFunc: func(l *Logger) { l.Warn("x") }},
		{name: "unknown level falls back to info", level: "verbose", logged: true, logFunc: func(l *Logger) { l.Info("x") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(Config{Level: tt.level, Output: &buf}))
			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: TEXT, Output: &buf})
	log.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text handler output, got %q", buf.String())
	}
}

func TestWith_CarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("request_id", "abc")
	log.Info("x")

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("expected request_id attribute, got %q", buf.String())
	}
}
