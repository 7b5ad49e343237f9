package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		name    string
		want    log.Formatter
		wantErr bool
	}{
		{"", log.TextFormatter, false},
		{"JSON", log.JSONFormatter, false},
		{"logfmt", log.LogfmtFormatter, false},
		{"xml", log.TextFormatter, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormatter(tt.name)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, %v", tt.name, got, err)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	prev, prevLogger := Output, log.Default()
	Output = &buf
	defer func() {
		Output = prev
		log.SetDefault(prevLogger)
	}()

	if err := Setup("warn", "logfmt", false, false); err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
	if err := Setup("loud", "", false, false); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
