package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"speechsplit/internal/audio"
	"speechsplit/internal/segmentation"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	want := map[string]bool{"split": false, "cache": false, "config": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("command %q not registered", name)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"config", "init", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	// A second init without --force refuses to clobber.
	root = newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"config", "init", path})
	if err := root.Execute(); err == nil {
		t.Fatal("init over an existing file should fail without --force")
	}
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := "[cache]\ndir = \"" + filepath.Join(dir, "cache") + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestWAV(t *testing.T, path string, buf *audio.Buffer) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, buf.SampleRate(), 16, 1, 1)
	data := make([]int, len(buf.Samples()))
	for i, s := range buf.Samples() {
		data[i] = int(s)
	}
	err = enc.Write(&gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: buf.SampleRate()},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestSplitEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	wavPath := filepath.Join(dir, "speech.wav")
	writeTestWAV(t, wavPath, audio.Concat(
		audio.Tone(440, 800, 8000, 0),
		audio.Silence(600, 8000),
		audio.Tone(440, 900, 8000, 0),
	))

	runSplit := func() []segmentation.Chunk {
		t.Helper()
		var out bytes.Buffer
		root := newRootCommand()
		root.SetOut(&out)
		root.SetArgs([]string{"-c", cfgPath, "split", "--json", wavPath})
		if err := root.Execute(); err != nil {
			t.Fatalf("split: %v", err)
		}
		var chunks []segmentation.Chunk
		if err := json.Unmarshal(out.Bytes(), &chunks); err != nil {
			t.Fatalf("split --json output is not JSON: %v\n%s", err, out.String())
		}
		return chunks
	}

	first := runSplit()
	if len(first) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if first[0].SilenceStart != 0 {
		t.Fatalf("fragments must start at 0: %+v", first[0])
	}
	for i := 1; i < len(first); i++ {
		if first[i].SilenceStart != first[i-1].AudibleEnd {
			t.Fatalf("fragments must be contiguous: %+v", first)
		}
	}

	// Second run is served from the disk cache and must be bit-identical.
	second := runSplit()
	if len(second) != len(first) {
		t.Fatalf("cached run differs: %+v vs %+v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cached run differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	// The entry is now visible to cache list.
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"-c", cfgPath, "cache", "list"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache list: %v", err)
	}
	if !strings.Contains(out.String(), "Fingerprint") {
		t.Fatalf("cache list should report entries, got:\n%s", out.String())
	}
}
