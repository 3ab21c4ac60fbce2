package depfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseContentBasic(t *testing.T) {
	rec := ParseContent("target/math/utils.o: src/math/utils.cpp src/math/utils.h \\\n src/common.h\n")
	if rec.Unknown() {
		t.Fatalf("expected a valid record")
	}
	want := []string{"src/common.h", "src/math/utils.cpp", "src/math/utils.h"}
	got := rec.Sorted()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseContentEscapedSpace(t *testing.T) {
	rec := ParseContent(`target/a.o: src/a\ b.h src/c.h`)
	if rec.Unknown() {
		t.Fatalf("expected a valid record")
	}
	got := rec.Sorted()
	found := false
	for _, p := range got {
		if p == "src/a b.h" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected escaped space preserved, got %v", got)
	}
}

func TestParseContentPhonyTargetsIgnored(t *testing.T) {
	content := "target/a.o: src/a.cpp src/a.h\n\nsrc/a.h:\n"
	rec := ParseContent(content)
	if rec.Unknown() {
		t.Fatalf("expected a valid record")
	}
	got := rec.Sorted()
	want := []string{"src/a.cpp", "src/a.h"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseContentNoColonIsUnknown(t *testing.T) {
	rec := ParseContent("not a depfile at all\n")
	if !rec.Unknown() {
		t.Fatalf("expected unknown record for malformed content")
	}
}

func TestParseMissingFileIsUnknown(t *testing.T) {
	rec := Parse(filepath.Join(t.TempDir(), "missing.d"))
	if !rec.Unknown() {
		t.Fatalf("expected unknown record for a missing file")
	}
}

func TestParseFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.d")
	if err := os.WriteFile(path, []byte("a.o: a.c a.h\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := Parse(path)
	if rec.Unknown() {
		t.Fatalf("expected a valid record")
	}
	if len(rec.Sorted()) != 2 {
		t.Fatalf("expected 2 prereqs, got %v", rec.Sorted())
	}
}

func TestParseContentEmpty(t *testing.T) {
	rec := ParseContent("")
	if !rec.Unknown() {
		t.Fatalf("expected unknown record for empty content")
	}
}
