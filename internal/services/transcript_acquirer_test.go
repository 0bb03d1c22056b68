package services

import "testing"

func TestRechunk_EmptyCuesReturnsNil(t *testing.T) {
	segments := rechunk(nil, FlashcardInterval)
	if segments != nil {
		t.Fatalf("expected nil, got %+v", segments)
	}
}

func TestRechunk_SingleShortCueBelowTarget(t *testing.T) {
	cues := []rawCue{{start: 0, end: 5, text: "hello"}}
	segments := rechunk(cues, 120)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].StartTime != 0 || segments[0].EndTime != 5 || segments[0].Text != "hello" {
		t.Fatalf("unexpected segment: %+v", segments[0])
	}
}

func TestRechunk_FlushesWhenTargetCrossed(t *testing.T) {
	cues := []rawCue{
		{start: 0, end: 60, text: "first"},
		{start: 60, end: 130, text: "second"},
		{start: 130, end: 140, text: "third"},
	}
	segments := rechunk(cues, 120)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Text != "first second" {
		t.Fatalf("unexpected first segment text: %q", segments[0].Text)
	}
	if segments[0].StartTime != 0 || segments[0].EndTime != 130 {
		t.Fatalf("unexpected first segment bounds: %+v", segments[0])
	}
	if segments[1].Text != "third" {
		t.Fatalf("unexpected second segment text: %q", segments[1].Text)
	}
}

func TestRechunk_AllTextPreservedAcrossSegments(t *testing.T) {
	cues := []rawCue{
		{start: 0, end: 50, text: "a"},
		{start: 50, end: 125, text: "b"},
		{start: 125, end: 200, text: "c"},
		{start: 200, end: 210, text: "d"},
	}
	segments := rechunk(cues, 120)
	var joined string
	for i, s := range segments {
		if i > 0 {
			joined += " "
		}
		joined += s.Text
	}
	if joined != "a b c d" {
		t.Fatalf("expected all text preserved in order, got %q", joined)
	}
}

func TestWindowCues_FiltersToHalfOpenWindow(t *testing.T) {
	cues := []rawCue{
		{start: 0, end: 10, text: "before"},
		{start: 595, end: 605, text: "straddles-start"},
		{start: 700, end: 750, text: "inside"},
		{start: 1195, end: 1205, text: "straddles-end"},
		{start: 1300, end: 1310, text: "after"},
	}
	windowed := windowCues(cues, 600, 1200)
	if len(windowed) != 3 {
		t.Fatalf("expected 3 cues in window, got %d: %+v", len(windowed), windowed)
	}
	if windowed[0].start != 600 {
		t.Fatalf("expected leading cue clipped to window start, got %v", windowed[0].start)
	}
	if windowed[2].end != 1200 {
		t.Fatalf("expected trailing cue clipped to window end, got %v", windowed[2].end)
	}
	for _, c := range windowed {
		if c.start < 600 || c.end > 1200 {
			t.Fatalf("cue escapes window bounds: %+v", c)
		}
	}
}

func TestWindowCues_EndLessThanOrEqualZeroRunsToVideoEnd(t *testing.T) {
	cues := []rawCue{
		{start: 0, end: 10, text: "a"},
		{start: 10000, end: 10010, text: "b"},
	}
	windowed := windowCues(cues, 0, 0)
	if len(windowed) != 2 {
		t.Fatalf("expected both cues kept when end<=0, got %d", len(windowed))
	}
}

func TestWindowCues_NoOverlapReturnsEmpty(t *testing.T) {
	cues := []rawCue{{start: 0, end: 10, text: "a"}}
	windowed := windowCues(cues, 600, 1200)
	if len(windowed) != 0 {
		t.Fatalf("expected no cues, got %+v", windowed)
	}
}
