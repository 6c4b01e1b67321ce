package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveWritesPerRequestDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "recordings")
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	rec, err := store.Save(strings.NewReader("webm-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Dir != filepath.Join(root, rec.ID) {
		t.Fatalf("expected dir under root, got %s", rec.Dir)
	}
	if filepath.Base(rec.Path) != "20240309140507.webm" {
		t.Fatalf("unexpected upload name %s", rec.Path)
	}
	if filepath.Base(rec.WavPath) != "20240309140507.wav" {
		t.Fatalf("unexpected wav name %s", rec.WavPath)
	}
	if rec.Size != int64(len("webm-bytes")) {
		t.Fatalf("unexpected size %d", rec.Size)
	}
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if string(data) != "webm-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveSameSecondDoesNotCollide(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	first, err := store.Save(strings.NewReader("first"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.Save(strings.NewReader("second"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first.Path == second.Path {
		t.Fatalf("expected distinct paths, both %s", first.Path)
	}
	data, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("first upload overwritten: %q", data)
	}
}

func TestNormalizedPath(t *testing.T) {
	tests := map[string]string{
		"recordings/x/20240309140507.webm": "recordings/x/20240309140507.wav",
		"a/b.ogg":                          "a/b.wav",
		"noext":                            "noext.wav",
	}
	for in, want := range tests {
		if got := NormalizedPath(in); got != want {
			t.Errorf("NormalizedPath(%q) = %q, want %q", in, got, want)
		}
	}
}
