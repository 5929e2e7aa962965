package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"lox/internal/config"
	"lox/internal/diagnostics"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"success", `print "ok";`, 0},
		{"scan error", `print "unterminated;`, 65},
		{"parse error", `print ;`, 65},
		{"resolve error", `class A < A {}`, 65},
		{"runtime error", `print undefined_name;`, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, tt.source)
			errBuf := &bytes.Buffer{}
			sink := diagnostics.NewSink(errBuf, false)

			got := runFile(path, sink, nil)
			if got != tt.want {
				t.Fatalf("got exit code %d, want %d (stderr: %s)", got, tt.want, errBuf)
			}
		})
	}
}

func TestRunFile_MissingFileIsAStaticError(t *testing.T) {
	errBuf := &bytes.Buffer{}
	sink := diagnostics.NewSink(errBuf, false)

	got := runFile(filepath.Join(t.TempDir(), "missing.lox"), sink, nil)
	if got != 65 {
		t.Fatalf("got exit code %d, want 65", got)
	}
	if errBuf.Len() == 0 {
		t.Fatal("expected the missing-file error to be reported")
	}
}

func TestResolveColorize(t *testing.T) {
	tests := []struct {
		name              string
		colorOn, colorOff bool
		cfgColor          config.Color
		want              bool
	}{
		{"no-color flag wins over color flag", true, true, config.ColorOn, false},
		{"color flag overrides a config that says off", true, false, config.ColorOff, true},
		{"config on is honored when no flags set", false, false, config.ColorOn, true},
		{"config off is honored when no flags set", false, false, config.ColorOff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveColorize(tt.colorOn, tt.colorOff, tt.cfgColor); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunLox_TooManyArgsSetsExitCode64(t *testing.T) {
	exitCode = 0
	rootCmd.SetArgs([]string{"a.lox", "b.lox"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if exitCode != 64 {
		t.Fatalf("got exit code %d, want 64", exitCode)
	}
}
