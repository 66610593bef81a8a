package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithWriter_Level(t *testing.T) {
	if got := NewWithWriter(&bytes.Buffer{}, "debug", false).GetLevel(); got != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
	if got := NewWithWriter(&bytes.Buffer{}, "loud", false).GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("unknown level = %v, want info fallback", got)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "info", true).WithField("total", 11000).Info("computed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "computed" || entry["total"] != float64(11000) {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewWithWriter_TextSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn", false)
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("output = %q", buf.String())
	}
}
