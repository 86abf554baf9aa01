package segmentation

import (
	"reflect"
	"testing"
)

func TestMergeFoldsShortChunksForward(t *testing.T) {
	// Audible spans of 60, 10, and 5 ms are detection noise; the 200 ms
	// chunk absorbs them, keeping the first chunk's leading silence.
	chunks := []Chunk{
		{SilenceStart: 0, AudibleStart: 100, AudibleEnd: 160, Level: 2},
		{SilenceStart: 160, AudibleStart: 300, AudibleEnd: 310, Level: 2},
		{SilenceStart: 310, AudibleStart: 400, AudibleEnd: 405, Level: 3},
		{SilenceStart: 405, AudibleStart: 500, AudibleEnd: 700, Level: 1},
	}

	got := mergeAlmostSilent(chunks, 150)
	want := []Chunk{
		{SilenceStart: 0, AudibleStart: 500, AudibleEnd: 700, Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}

func TestMergeKeepsLongChunksUntouched(t *testing.T) {
	chunks := []Chunk{
		{SilenceStart: 0, AudibleStart: 50, AudibleEnd: 400},
		{SilenceStart: 400, AudibleStart: 600, AudibleEnd: 900},
	}
	got := mergeAlmostSilent(chunks, 150)
	if !reflect.DeepEqual(got, chunks) {
		t.Fatalf("long chunks should pass through unchanged: %+v", got)
	}
}

func TestMergeAccumulatesEarliestSilenceStart(t *testing.T) {
	chunks := []Chunk{
		{SilenceStart: 100, AudibleStart: 200, AudibleEnd: 500},
		{SilenceStart: 500, AudibleStart: 550, AudibleEnd: 560},
		{SilenceStart: 560, AudibleStart: 600, AudibleEnd: 610},
		{SilenceStart: 610, AudibleStart: 700, AudibleEnd: 1000},
	}
	got := mergeAlmostSilent(chunks, 150)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(got), got)
	}
	if got[1].SilenceStart != 500 {
		t.Fatalf("absorbed silence should start at the first short chunk (500), got %d", got[1].SilenceStart)
	}
}

func TestMergeDropsTrailingShortRun(t *testing.T) {
	// A short run at the end has no following chunk to absorb into; it is
	// dropped. Known lossy edge case, kept deliberately.
	chunks := []Chunk{
		{SilenceStart: 0, AudibleStart: 100, AudibleEnd: 400},
		{SilenceStart: 400, AudibleStart: 500, AudibleEnd: 520},
		{SilenceStart: 520, AudibleStart: 600, AudibleEnd: 640},
	}
	got := mergeAlmostSilent(chunks, 150)
	want := []Chunk{
		{SilenceStart: 0, AudibleStart: 100, AudibleEnd: 400},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("trailing short run should be dropped: %+v", got)
	}
}

func TestMergeAllShortYieldsNothing(t *testing.T) {
	chunks := []Chunk{
		{SilenceStart: 0, AudibleStart: 10, AudibleEnd: 30},
		{SilenceStart: 30, AudibleStart: 50, AudibleEnd: 60},
	}
	if got := mergeAlmostSilent(chunks, 150); len(got) != 0 {
		t.Fatalf("all-short input should merge to nothing, got %+v", got)
	}
}
