package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("window:\n  width: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := run(path)
	if err == nil || !strings.HasPrefix(err.Error(), "load config:") {
		t.Errorf("run(%q) = %v, want a load config error", path, err)
	}
}
