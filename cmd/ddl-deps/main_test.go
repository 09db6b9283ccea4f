package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ddl-deps/internal/cliapp"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestRun_WritesArtifactsAndListsThem(t *testing.T) {
	isolate(t)
	out := t.TempDir()
	ddlPath := filepath.Join(t.TempDir(), "schema.sql")
	if err := os.WriteFile(ddlPath, []byte("CREATE TABLE A(id INT);\nCREATE TABLE B(id INT, FOREIGN KEY (id) REFERENCES A);\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"--output.dir", out, ddlPath, "B"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Arquivos gerados:\n" +
		" - " + filepath.Join(out, "mermaid.md") + "\n" +
		" - " + filepath.Join(out, "resultado_analise.txt") + "\n"
	if got := stdout.String(); got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "missing start table", args: []string{"schema.sql"}},
		{name: "unknown flag", args: []string{"--bogus", "schema.sql", "A"}},
		{name: "start table empty after normalization", args: []string{"schema.sql", "``"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if !errors.Is(err, cliapp.ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if exitCode(err) != exitUsage {
				t.Fatalf("expected exit code %d, got %d", exitUsage, exitCode(err))
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no stdout, got %q", stdout.String())
			}
			if stderr.Len() == 0 {
				t.Fatalf("expected usage on stderr")
			}
		})
	}
}

func TestRun_MissingInputExitsWithError(t *testing.T) {
	isolate(t)
	out := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing.sql")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--output.dir", out, missing, "A"}, &stdout, &stderr)

	var inputErr *cliapp.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %v", err)
	}
	if inputErr.Path != missing {
		t.Fatalf("expected path %q, got %q", missing, inputErr.Path)
	}
	if exitCode(err) != exitError {
		t.Fatalf("expected exit code %d", exitError)
	}

	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Fatalf("expected no artifacts, found %d", len(entries))
	}
	if !strings.Contains(stderr.String(), missing) {
		t.Fatalf("expected stderr to name %q, got %q", missing, stderr.String())
	}
}

func TestRun_UsageCheckedBeforeConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgDir := filepath.Join(home, ".ddl-deps")
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "ddl-deps.yaml"), []byte("output: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"schema.sql"}, &stdout, &stderr)
	if exitCode(err) != exitUsage {
		t.Fatalf("expected exit code %d, got %d (%v)", exitUsage, exitCode(err), err)
	}
}

func TestRun_InvalidConfigFails(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{"--observability.logging.level", "loud", "schema.sql", "A"}, &stdout, &stderr)
	if err == nil || errors.Is(err, cliapp.ErrUsage) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRun_Version(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stdout.String(); got != "ddl-deps dev (none)\n" {
		t.Fatalf("unexpected version output %q", got)
	}
}
