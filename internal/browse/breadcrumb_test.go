package browse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	crumb, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if crumb != (Breadcrumb{}) {
		t.Errorf("crumb = %+v, want empty", crumb)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	store := NewFileStore(path)
	want := Breadcrumb{Project: "p1", Release: "r1"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `project = "p1"`) {
		t.Errorf("file = %q", data)
	}
	if strings.Contains(string(data), "feature") {
		t.Errorf("empty feature should be omitted: %q", data)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	os.WriteFile(path, []byte("project = = ="), 0644)
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("expected an error for a malformed file")
	}
}

func TestFileStoreWriteFailure(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "cache"))
	err := store.Save(Breadcrumb{Project: "p1"})
	if err == nil || !strings.Contains(err.Error(), "couldn't write to") {
		t.Errorf("err = %v", err)
	}
}
