package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	if err := os.WriteFile(file, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	t.Setenv("CAREER_CHECKER_TEST_KEY", "from-env")

	got, err := Load(Source{Name: "key", File: file, Env: "CAREER_CHECKER_TEST_KEY", Value: "inline"})
	if err != nil || got != "from-file" {
		t.Fatalf("expected file value, got %q (%v)", got, err)
	}

	got, err = Load(Source{Name: "key", Env: "CAREER_CHECKER_TEST_KEY", Value: "inline"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected env value, got %q (%v)", got, err)
	}

	got, err = Load(Source{Name: "key", Env: "CAREER_CHECKER_MISSING_KEY", Value: " inline "})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	if _, err := Load(Source{Name: "gemini api key", File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	_, err := Load(Source{Name: "gemini api key", Env: "CAREER_CHECKER_MISSING_KEY"})
	if err == nil || !strings.Contains(err.Error(), "CAREER_CHECKER_MISSING_KEY") {
		t.Fatalf("expected hint about env variable, got %v", err)
	}
}
