package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_WriteAndReadBack(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	players := []PlayerLine{
		{Name: "A", Points: 5, Note: "All American"},
		{Name: "B", Points: 0, Note: ""},
	}

	path, err := w.WriteClass(2025, "oklahoma_state", players)
	if err != nil {
		t.Fatalf("WriteClass error: %v", err)
	}
	if filepath.Base(path) != "2025_oklahoma_state.json" {
		t.Fatalf("unexpected export name %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	got, err := w.ReadClass(2025, "oklahoma_state")
	if err != nil {
		t.Fatalf("ReadClass error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[0].Points != 5 || got[1].Name != "B" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestWriter_ReplacesPreviousExport(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	if _, err := w.WriteClass(2025, "texas", []PlayerLine{{Name: "Old", Points: 1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteClass(2025, "texas", []PlayerLine{{Name: "New", Points: 2}}); err != nil {
		t.Fatal(err)
	}

	got, err := w.ReadClass(2025, "texas")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "New" {
		t.Fatalf("expected replacement, got %+v", got)
	}
}

func TestWriter_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	w := NewWriter("")
	path, err := w.WriteClass(2025, "texas", []PlayerLine{{Name: "X"}})
	if err != nil || path != "" {
		t.Fatalf("expected noop, got path=%q err=%v", path, err)
	}

	got, err := w.ReadClass(2025, "texas")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty read, got %+v err=%v", got, err)
	}
}

func TestWriter_MissingFileReadsEmpty(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	got, err := w.ReadClass(1999, "nowhere")
	if err != nil {
		t.Fatalf("ReadClass error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}
