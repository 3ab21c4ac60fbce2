package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMinimal(t *testing.T) {
	path := writeTemp(t, `
app_name = hello
source_dir = src
output_dir = out
temp_dir = target
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "hello" || cfg.SourceDir != "src" || cfg.OutputDir != "out" || cfg.TempDir != "target" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Incremental {
		t.Fatalf("expected incremental to default to true")
	}
	if cfg.ParallelJobs <= 0 {
		t.Fatalf("expected parallel_jobs to default to a positive number")
	}
}

func TestLoadDefaultsCompilerFromEnv(t *testing.T) {
	t.Setenv("CC", "clang")
	t.Setenv("CXX", "clang++")
	path := writeTemp(t, `
app_name = hello
source_dir = src
output_dir = out
temp_dir = target
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GCCPath != "clang" || cfg.GPPPath != "clang++" {
		t.Fatalf("expected CC/CXX to seed compiler paths, got gcc_path=%q gpp_path=%q", cfg.GCCPath, cfg.GPPPath)
	}
}

func TestLoadGCCPathOverridesEnv(t *testing.T) {
	t.Setenv("CC", "clang")
	path := writeTemp(t, `
app_name = hello
source_dir = src
output_dir = out
temp_dir = target
gcc_path = my-gcc
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GCCPath != "my-gcc" {
		t.Fatalf("expected explicit gcc_path to win over $CC, got %q", cfg.GCCPath)
	}
}

func TestLoadMissingMandatoryKey(t *testing.T) {
	path := writeTemp(t, `app_name = hello
source_dir = src
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for missing mandatory keys")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeTemp(t, `app_name = hello
source_dir = src
output_dir = out
temp_dir = target
bogus_key = 1
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 5 {
		t.Fatalf("expected error on line 5, got %d", pe.Line)
	}
}

func TestParallelJobsAuto(t *testing.T) {
	path := writeTemp(t, `app_name = hello
source_dir = src
output_dir = out
temp_dir = target
parallel_jobs = auto
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ParallelJobs <= 0 {
		t.Fatalf("expected auto to resolve to a positive parallelism")
	}
}

func TestParallelJobsBadInteger(t *testing.T) {
	path := writeTemp(t, `app_name = hello
source_dir = src
output_dir = out
temp_dir = target
parallel_jobs = notanumber
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for non-numeric parallel_jobs")
	}
}

func TestUnterminatedQuote(t *testing.T) {
	path := writeTemp(t, `app_name = hello
source_dir = src
output_dir = out
temp_dir = target
c_flags = "-Wall
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}

func TestTokenizeCommaPreserved(t *testing.T) {
	tokens, err := tokenize(`-Wall -Wl,-rpath,./lib`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []string{"-Wall", "-Wl,-rpath,./lib"}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("got %v, want %v", tokens, want)
		}
	}
}

func TestTokenizeQuotedSpaces(t *testing.T) {
	tokens, err := tokenize(`-DNAME="my name" -Wall`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "-DNAME=my name" || tokens[1] != "-Wall" {
		t.Fatalf("got %v", tokens)
	}
}

func TestTokenizeBackslashEscape(t *testing.T) {
	tokens, err := tokenize(`-DFOO=bar\ baz`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "-DFOO=bar baz" {
		t.Fatalf("got %v", tokens)
	}
}

func TestTokenizeEmptyValue(t *testing.T) {
	tokens, err := tokenize("")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected empty token sequence, got %v", tokens)
	}
}

func TestAppNameRejectsPathSeparators(t *testing.T) {
	path := writeTemp(t, `app_name = sub/app
source_dir = src
output_dir = out
temp_dir = target
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for app_name with path separator")
	}
}
