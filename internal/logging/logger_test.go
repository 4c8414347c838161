package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"dev", zerolog.DebugLevel},
		{"prod", zerolog.InfoLevel},
		{"local", zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			logger, err := NewWithWriter(tt.env, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("NewWithWriter() error = %v", err)
			}
			if logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewWithWriter_UnknownEnv(t *testing.T) {
	if _, err := NewWithWriter("staging", &bytes.Buffer{}); err == nil {
		t.Fatal("NewWithWriter() error = nil, want error")
	}
}

func TestForModule(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("prod", &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	taskLogger := ForModule(logger, "task")
	taskLogger.Info().Str("task_id", "t1").Msg("created")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["module"] != "task" {
		t.Errorf("module = %v, want task", line["module"])
	}
	if line["task_id"] != "t1" {
		t.Errorf("task_id = %v, want t1", line["task_id"])
	}
	if _, ok := line["timestamp"]; !ok {
		t.Error("timestamp field missing")
	}
}
