package services

import "testing"

func TestParseVTTTimestamp_HoursMinutesSeconds(t *testing.T) {
	got, ok := parseVTTTimestamp("01:02:03.500")
	if !ok {
		t.Fatalf("expected ok=true")
	}
	want := 1*3600 + 2*60 + 3 + 0.5
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseVTTTimestamp_MinutesSecondsOnly(t *testing.T) {
	got, ok := parseVTTTimestamp("00:30.000")
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got != 30 {
		t.Fatalf("got %v, want 30", got)
	}
}

func TestParseVTTTimestamp_RejectsGarbage(t *testing.T) {
	if _, ok := parseVTTTimestamp("not-a-timestamp"); ok {
		t.Fatalf("expected ok=false")
	}
}

func TestStripVTTTags_RemovesInlineTags(t *testing.T) {
	got := stripVTTTags("<c>Hello</c> <i>world</i>")
	if got != "Hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestParseVTT_ParsesCuesWithMultilineText(t *testing.T) {
	body := "WEBVTT\n\n" +
		"00:00:00.000 --> 00:00:02.000\n" +
		"Hello there\n\n" +
		"00:00:02.000 --> 00:00:05.000\n" +
		"<c>General</c> Kenobi\n"

	cues := parseVTT(body)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].start != 0 || cues[0].end != 2 || cues[0].text != "Hello there" {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].text != "General Kenobi" {
		t.Fatalf("unexpected second cue text: %q", cues[1].text)
	}
}

func TestParseVTT_SkipsHeaderAndEmptyLines(t *testing.T) {
	body := "WEBVTT\nKind: captions\n\n"
	cues := parseVTT(body)
	if len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
}
