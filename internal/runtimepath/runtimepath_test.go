package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/winwatch-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestDataDirAndJournalPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_DATA_HOME", td)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if dir != filepath.Join(td, "winwatch") {
		t.Fatalf("DataDir() = %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("DataDir() did not create %q", dir)
	}

	journal, err := JournalPath()
	if err != nil {
		t.Fatalf("JournalPath() error: %v", err)
	}
	if journal != filepath.Join(td, "winwatch", "journal.db") {
		t.Fatalf("JournalPath() = %q", journal)
	}
}

func TestCapturePath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	p, err := CapturePath(42, "png")
	if err != nil {
		t.Fatalf("CapturePath() error: %v", err)
	}
	if !strings.HasSuffix(p, "/winwatch-capture-42.png") {
		t.Fatalf("CapturePath() = %q, missing suffix", p)
	}
}
