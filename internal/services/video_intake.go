package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/videolearn/backend/internal/clients/ytdlp"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/svcerr"
)

var fallbackVideoIDPattern = regexp.MustCompile(`[=/]([a-zA-Z0-9_-]{11})(?:[?&#/]|$)`)

// VideoIntakeResult is the outcome of a successful intake validation.
type VideoIntakeResult struct {
	CanonicalID string
	Metadata    *ytdlp.Metadata
}

// VideoIntake validates a submitted URL, derives its canonical id, and
// fetches/validates metadata before any paid work begins (spec.md §4.1).
type VideoIntake interface {
	CanonicalID(rawURL string) (string, error)
	Validate(ctx context.Context, rawURL string, maxDurationSeconds float64) (*VideoIntakeResult, error)
}

type videoIntake struct {
	log    *logger.Logger
	client *ytdlp.Client
}

func NewVideoIntake(log *logger.Logger, client *ytdlp.Client) VideoIntake {
	return &videoIntake{log: log.With("service", "VideoIntake"), client: client}
}

// CanonicalID parses watch/short/embed/live/mobile/music/gaming YouTube URL
// variants, rejects Shorts explicitly, and falls back to a content hash for
// non-YouTube sources (spec.md §3, §4.1; grounded on the reference
// implementation's extract_youtube_video_id).
func (v *videoIntake) CanonicalID(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", svcerr.InvalidURL(fmt.Errorf("empty url"))
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", svcerr.InvalidURL(fmt.Errorf("parse url: %w", err))
	}

	host := strings.ToLower(parsed.Hostname())
	isYouTube := strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") ||
		strings.Contains(host, "music.youtube.com") || strings.Contains(host, "gaming.youtube.com") ||
		strings.Contains(host, "m.youtube.com")

	if !isYouTube {
		return hashURL(trimmed), nil
	}

	// Shorts are rejected before any other parsing is attempted.
	if strings.Contains(trimmed, "youtube.com/shorts/") {
		return "", svcerr.UnsupportedVideoType(fmt.Errorf("shorts urls are not supported: %s", trimmed))
	}

	if strings.Contains(host, "youtu.be") {
		id := strings.Trim(parsed.Path, "/")
		if id != "" {
			return firstPathSegment(id), nil
		}
	}

	query := parsed.Query()
	if v := query.Get("v"); v != "" {
		return v, nil
	}

	// /embed/<id>, /v/<id>, /live/<id>
	for _, prefix := range []string{"/embed/", "/v/", "/live/"} {
		if strings.Contains(parsed.Path, prefix) {
			rest := strings.SplitN(parsed.Path, prefix, 2)[1]
			return firstPathSegment(rest), nil
		}
	}

	if m := fallbackVideoIDPattern.FindStringSubmatch(trimmed); len(m) == 2 {
		return m[1], nil
	}

	return "", svcerr.InvalidURL(fmt.Errorf("could not extract video id from %s", trimmed))
}

func firstPathSegment(path string) string {
	if idx := strings.IndexAny(path, "?&#/"); idx >= 0 {
		return path[:idx]
	}
	return path
}

func hashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:16]
}

// Validate fetches metadata and enforces the duration and language gates.
// Duration exactly equal to maxDurationSeconds is accepted.
func (v *videoIntake) Validate(ctx context.Context, rawURL string, maxDurationSeconds float64) (*VideoIntakeResult, error) {
	canonicalID, err := v.CanonicalID(rawURL)
	if err != nil {
		return nil, err
	}

	meta, err := v.client.FetchMetadata(ctx, rawURL)
	if err != nil {
		return nil, svcerr.MetadataUnavailable(err)
	}

	if maxDurationSeconds > 0 && meta.Duration > maxDurationSeconds {
		return nil, svcerr.DurationExceeded(fmt.Errorf("duration %.0fs exceeds max %.0fs", meta.Duration, maxDurationSeconds))
	}

	// Captions availability is a stronger signal than metadata language,
	// which is often absent; only reject when both checks agree the video
	// isn't English (spec.md §4.1).
	captions, capErr := v.client.ListCaptions(ctx, rawURL, "en")
	hasEnglishCaptions := capErr == nil && len(captions) > 0
	if !hasEnglishCaptions && meta.Language != "" && !isEnglish(meta.Language) {
		return nil, svcerr.UnsupportedLanguage(fmt.Errorf("no english caption track and metadata language is %q", meta.Language))
	}

	return &VideoIntakeResult{CanonicalID: canonicalID, Metadata: meta}, nil
}

func isEnglish(language string) bool {
	lower := strings.ToLower(language)
	return lower == "en" || strings.HasPrefix(lower, "en-") || strings.HasPrefix(lower, "en_")
}
