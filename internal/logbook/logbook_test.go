package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navigation.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("focus-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"focus-2", "focus-3", "focus-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestMemoryLogbookKeepsLimit(t *testing.T) {
	book := NewMemory(2)
	book.Info("enter group")
	book.Warn("recovered")
	book.Error("desktop malformed")

	lines, total := book.Tail(10)
	if total != 3 || len(lines) != 2 {
		t.Fatalf("expected 2 of 3 lines, got %d of %d", len(lines), total)
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("unexpected lines %q", lines)
	}
	var nilBook *Logbook
	nilBook.Info("ignored")
	if lines, _ := nilBook.Tail(1); lines != nil {
		t.Fatalf("expected nothing from a nil logbook")
	}
}
