package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  output.OutputFormat
	}{
		{input: "json", want: output.FormatJSON},
		{input: "csv", want: output.FormatCSV},
		{input: "markdown", want: output.FormatMarkdown},
		{input: "md", want: output.FormatMarkdown},
		{input: "ci", want: output.FormatCI},
		{input: "ndjson", want: output.FormatCI},
		{input: "unknown", want: output.FormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := getOutputFormat(tt.input); got != tt.want {
				t.Fatalf("getOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		debug     bool
		wantInfo  bool
		wantDebug bool
	}{
		{name: "Quiet"},
		{name: "Verbose", verbose: true, wantInfo: true},
		{name: "Debug", debug: true, wantInfo: true, wantDebug: true},
		{name: "DebugWins", verbose: true, debug: true, wantInfo: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tt.verbose, tt.debug)
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Fatalf("info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Fatalf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !logger.Enabled(ctx, slog.LevelWarn) {
				t.Fatalf("warn should always be enabled")
			}
		})
	}
}

func TestDetectBugfixes(t *testing.T) {
	log := fossil.NewChangeLog([]fossil.ChangeEntry{
		{CommitID: "aaa1111111", Message: "fix crash (user: jdoe)"},
		{CommitID: "bbb2222222", Message: "docs (user: jdoe)"},
	})

	t.Run("NoPatterns", func(t *testing.T) {
		result, err := detectBugfixes(log, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatalf("expected nil result, got %+v", result)
		}
	})

	t.Run("Patterns", func(t *testing.T) {
		result, err := detectBugfixes(log, []string{`\bfix\b`})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsBugfixCommit("aaa1111111") || result.IsBugfixCommit("bbb2222222") {
			t.Fatalf("unexpected bugfix commits: %+v", result.BugfixCommits)
		}
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		if _, err := detectBugfixes(log, []string{"(unclosed"}); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}
