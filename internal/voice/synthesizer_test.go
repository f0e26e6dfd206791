package voice

import (
	"context"
	"strings"
	"testing"
)

func TestSplitSegmentsShortInputStaysWhole(t *testing.T) {
	in := "A short narration."
	got := SplitSegments(in)
	if len(got) != 1 || got[0] != in {
		t.Fatalf("SplitSegments = %v, want the input untouched", got)
	}
}

func TestSplitSegmentsRespectsLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("This sentence is about fifty characters in length. ")
	}
	segments := SplitSegments(strings.TrimSpace(b.String()))

	if len(segments) < 2 {
		t.Fatalf("got %d segments, expected the long script to split", len(segments))
	}
	for i, segment := range segments {
		if len(segment) > maxSegmentLength {
			t.Errorf("segment %d is %d chars, limit is %d", i, len(segment), maxSegmentLength)
		}
		if segment != strings.TrimSpace(segment) {
			t.Errorf("segment %d has surrounding whitespace: %q", i, segment)
		}
	}

	// No words lost across the split.
	joined := strings.Join(segments, " ")
	if strings.Count(joined, "sentence") != 12 {
		t.Fatalf("joined segments lost sentences: %q", joined)
	}
}

func TestSplitSegmentsOversizeSentenceStaysWhole(t *testing.T) {
	long := strings.Repeat("word ", 60) + "end."
	segments := SplitSegments(long)
	for _, segment := range segments {
		if strings.HasSuffix(segment, " wor") || strings.HasPrefix(segment, "d ") {
			t.Fatalf("sentence was cut mid-word: %q", segment)
		}
	}
}

func TestSynthesizeEmptyScript(t *testing.T) {
	s := NewSynthesizer("en")
	if _, err := s.Synthesize(context.Background(), "   \n\t ", t.TempDir()); err == nil {
		t.Fatal("expected an error for an all-whitespace script")
	}
}
