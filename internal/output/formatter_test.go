package output

import (
	"fmt"
	"testing"
)

func TestNewChangeLogWriter(t *testing.T) {
	tests := []struct {
		name         string
		format       OutputFormat
		expectedType string
	}{
		{name: "Console", format: FormatConsole, expectedType: "*output.ConsoleChangeLogWriter"},
		{name: "JSON", format: FormatJSON, expectedType: "*output.JSONChangeLogWriter"},
		{name: "CSV", format: FormatCSV, expectedType: "*output.CSVChangeLogWriter"},
		{name: "Markdown", format: FormatMarkdown, expectedType: "*output.MarkdownChangeLogWriter"},
		{name: "CI", format: FormatCI, expectedType: "*output.CIChangeLogWriter"},
		{name: "Unknown defaults to Console", format: "unknown", expectedType: "*output.ConsoleChangeLogWriter"},
		{name: "Empty defaults to Console", format: "", expectedType: "*output.ConsoleChangeLogWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewChangeLogWriter(tt.format)
			if got := fmt.Sprintf("%T", writer); got != tt.expectedType {
				t.Errorf("NewChangeLogWriter(%q) = %s, expected %s", tt.format, got, tt.expectedType)
			}
		})
	}
}

func TestNewInfoWriter(t *testing.T) {
	tests := []struct {
		format       OutputFormat
		expectedType string
	}{
		{FormatConsole, "*output.ConsoleInfoWriter"},
		{FormatJSON, "*output.JSONInfoWriter"},
		{FormatCI, "*output.JSONInfoWriter"},
		{FormatCSV, "*output.ConsoleInfoWriter"},
	}

	for _, tt := range tests {
		if got := fmt.Sprintf("%T", NewInfoWriter(tt.format)); got != tt.expectedType {
			t.Errorf("NewInfoWriter(%q) = %s, expected %s", tt.format, got, tt.expectedType)
		}
	}
}

func TestNewPollWriter(t *testing.T) {
	tests := []struct {
		format       OutputFormat
		expectedType string
	}{
		{FormatConsole, "*output.ConsolePollWriter"},
		{FormatJSON, "*output.JSONPollWriter"},
		{FormatCI, "*output.CIPollWriter"},
		{FormatMarkdown, "*output.ConsolePollWriter"},
	}

	for _, tt := range tests {
		if got := fmt.Sprintf("%T", NewPollWriter(tt.format)); got != tt.expectedType {
			t.Errorf("NewPollWriter(%q) = %s, expected %s", tt.format, got, tt.expectedType)
		}
	}
}

func TestChangeLogReport_CommitURL(t *testing.T) {
	report := &ChangeLogReport{}
	if got := report.CommitURL("abc"); got != "" {
		t.Errorf("CommitURL without browser = %q, expected empty", got)
	}

	report.BrowserURL = "http://127.0.0.1:8080"
	if got := report.CommitURL("abc"); got != "http://127.0.0.1:8080/info/abc" {
		t.Errorf("CommitURL = %q, expected %q", got, "http://127.0.0.1:8080/info/abc")
	}
}
