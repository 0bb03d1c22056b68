package services

import (
	"errors"
	"testing"

	"github.com/videolearn/backend/internal/svcerr"
)

func TestVideoIntake_CanonicalID_WatchURL(t *testing.T) {
	v := &videoIntake{}
	id, err := v.CanonicalID("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestVideoIntake_CanonicalID_ShortLink(t *testing.T) {
	v := &videoIntake{}
	id, err := v.CanonicalID("https://youtu.be/dQw4w9WgXcQ?t=30")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestVideoIntake_CanonicalID_EmbedLink(t *testing.T) {
	v := &videoIntake{}
	id, err := v.CanonicalID("https://www.youtube.com/embed/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestVideoIntake_CanonicalID_RejectsShorts(t *testing.T) {
	v := &videoIntake{}
	_, err := v.CanonicalID("https://www.youtube.com/shorts/dQw4w9WgXcQ")
	if err == nil {
		t.Fatalf("expected error for shorts url")
	}
	var svcErr *svcerr.Error
	if !errors.As(err, &svcErr) || svcErr.Kind != svcerr.KindUnsupportedVideoType {
		t.Fatalf("expected KindUnsupportedVideoType, got %v", err)
	}
}

func TestVideoIntake_CanonicalID_RejectsEmpty(t *testing.T) {
	v := &videoIntake{}
	_, err := v.CanonicalID("   ")
	if err == nil {
		t.Fatalf("expected error for empty url")
	}
	var svcErr *svcerr.Error
	if !errors.As(err, &svcErr) || svcErr.Kind != svcerr.KindInvalidURL {
		t.Fatalf("expected KindInvalidURL, got %v", err)
	}
}

func TestVideoIntake_CanonicalID_NonYouTubeHashesURL(t *testing.T) {
	v := &videoIntake{}
	id1, err := v.CanonicalID("https://example.com/some/video.mp4")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(id1) != 16 {
		t.Fatalf("expected 16 char hash id, got %q", id1)
	}
	id2, _ := v.CanonicalID("https://example.com/some/video.mp4")
	if id1 != id2 {
		t.Fatalf("expected deterministic hash, got %q vs %q", id1, id2)
	}
}

func TestIsEnglish(t *testing.T) {
	cases := map[string]bool{
		"en":      true,
		"en-US":   true,
		"en_GB":   true,
		"EN":      true,
		"fr":      false,
		"spa":     false,
		"":        false,
	}
	for lang, want := range cases {
		if got := isEnglish(lang); got != want {
			t.Fatalf("isEnglish(%q) = %v, want %v", lang, got, want)
		}
	}
}
