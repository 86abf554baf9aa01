package fragcache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"speechsplit/internal/segmentation"
)

var testChunks = []segmentation.Chunk{
	{SilenceStart: 0, AudibleStart: 100, AudibleEnd: 900, Level: 0, Label: segmentation.Unlabeled},
	{SilenceStart: 900, AudibleStart: 1200, AudibleEnd: 2000, Level: 3, Label: segmentation.Unlabeled},
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	ctx := context.Background()

	if err := store.Save(ctx, "abc123", testChunks); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load(ctx, "abc123")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if !reflect.DeepEqual(got, testChunks) {
		t.Fatalf("round trip changed chunks: %+v", got)
	}
}

func TestFileStoreMiss(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, ok, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("a missing entry is a miss, not an error: %v", err)
	}
	if ok {
		t.Fatal("unexpected hit")
	}
}

func TestFileStoreCorruptEntryIsAnError(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	path := filepath.Join(dir, "bad"+fragmentsSuffix)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.Load(context.Background(), "bad"); err == nil {
		t.Fatal("a corrupt entry must surface as an error, never a silent miss")
	}
}

func TestFileStoreEntryIsHumanReadable(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := store.Save(context.Background(), "abc123", testChunks); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc123"+fragmentsSuffix))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"silence_start", "audible_start", "audible_end", "level", `"?"`} {
		if !bytes.Contains(data, []byte(field)) {
			t.Fatalf("cache file should spell out %s, got:\n%s", field, data)
		}
	}
}

func TestFileStoreListAndClear(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	ctx := context.Background()

	fingerprints, err := store.List(ctx)
	if err != nil || fingerprints != nil {
		t.Fatalf("empty store should list nothing, got %v (%v)", fingerprints, err)
	}

	for _, fp := range []string{"bbb", "aaa"} {
		if err := store.Save(ctx, fp, testChunks); err != nil {
			t.Fatal(err)
		}
	}

	fingerprints, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(fingerprints, []string{"aaa", "bbb"}) {
		t.Fatalf("expected sorted fingerprints, got %v", fingerprints)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	fingerprints, err = store.List(ctx)
	if err != nil || len(fingerprints) != 0 {
		t.Fatalf("store should be empty after clear, got %v (%v)", fingerprints, err)
	}
}
