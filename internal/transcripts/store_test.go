package transcripts

import (
	"os"
	"path/filepath"
	"testing"

	"tuberag/internal/models"
)

func TestStoreWriteAll(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	docs := []*models.TranscriptDocument{
		{SourceVideoID: "v1", DisplayName: "First_Video", Body: "body one"},
		{SourceVideoID: "v2", DisplayName: "Second_Video", Body: "body two"},
	}

	paths, err := store.WriteAll(docs)
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "001_First_Video.txt"),
		filepath.Join(dir, "002_Second_Video.txt"),
	}
	for i, path := range paths {
		if path != want[i] {
			t.Errorf("path %d = %q, want %q", i, path, want[i])
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("artifact not written: %v", err)
		}
		if string(data) != docs[i].Body {
			t.Errorf("artifact %d content = %q, want %q", i, data, docs[i].Body)
		}
	}

	path, ok := store.Path("Second_Video")
	if !ok || path != want[1] {
		t.Errorf("Path(Second_Video) = %q, %v", path, ok)
	}
}

func TestStoreClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	paths, err := store.WriteAll([]*models.TranscriptDocument{
		{DisplayName: "Only_Video", Body: "body"},
	})
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("artifact still exists after Clear: %v", err)
	}
	if _, ok := store.Path("Only_Video"); ok {
		t.Error("Path still resolves after Clear")
	}
}
