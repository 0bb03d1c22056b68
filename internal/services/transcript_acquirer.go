package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/clients/ytdlp"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

// FlashcardInterval is the target rechunked segment duration (spec.md §4.2).
// It is a fixed constant; no configuration key overrides it.
const FlashcardInterval = 120.0

// rawCue is a caption or speech-to-text cue before rechunking.
type rawCue struct {
	start float64
	end   float64
	text  string
}

// TranscriptAcquirer implements the tiered captions-then-speech-to-text
// strategy (spec.md §4.2).
type TranscriptAcquirer interface {
	// Transcribe fetches and rechunks a transcript for [start, end) of the
	// video at url. When end <= 0 the whole video is covered.
	Transcribe(ctx context.Context, videoURL string, start, end float64) ([]types.TranscriptSegment, error)
}

type transcriptAcquirer struct {
	log    *logger.Logger
	yt     *ytdlp.Client
	llm    llm.Client
	httpc  *http.Client
}

func NewTranscriptAcquirer(log *logger.Logger, yt *ytdlp.Client, llmClient llm.Client) TranscriptAcquirer {
	return &transcriptAcquirer{
		log:   log.With("service", "TranscriptAcquirer"),
		yt:    yt,
		llm:   llmClient,
		httpc: &http.Client{},
	}
}

func (t *transcriptAcquirer) Transcribe(ctx context.Context, videoURL string, start, end float64) ([]types.TranscriptSegment, error) {
	cues, err := t.fromCaptions(ctx, videoURL, start, end)
	if err != nil {
		t.log.Debug("captions unavailable, falling back to speech-to-text", "error", err)
		cues, err = t.fromSpeechToText(ctx, videoURL, start, end)
		if err != nil {
			return nil, svcerr.TranscriptionFailed(fmt.Errorf("both caption and speech-to-text tiers failed: %w", err))
		}
	}

	return rechunk(cues, FlashcardInterval), nil
}

// fromCaptions fetches the full caption track and restricts it to [start,
// end) so multi-batch videos don't re-emit the whole track per window
// (spec.md §4.3: no segment straddles a batch boundary). end <= 0 means
// "to the end of the video", matching windowsFor's half-open windows.
func (t *transcriptAcquirer) fromCaptions(ctx context.Context, videoURL string, start, end float64) ([]rawCue, error) {
	captions, err := t.yt.ListCaptions(ctx, videoURL, "en")
	if err != nil {
		return nil, err
	}
	if len(captions) == 0 {
		return nil, fmt.Errorf("no_transcript_found")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captions[0].URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cues := windowCues(parseVTT(string(body)), start, end)
	if len(cues) == 0 {
		return nil, fmt.Errorf("no caption cues in window [%.0f, %.0f)", start, end)
	}
	return cues, nil
}

// windowCues keeps only cues overlapping [start, end), clipping cue
// boundaries to the window edges so the returned cues never extend past it.
// end <= 0 means the window runs to the end of the video.
func windowCues(cues []rawCue, start, end float64) []rawCue {
	out := make([]rawCue, 0, len(cues))
	for _, c := range cues {
		if c.end <= start {
			continue
		}
		if end > 0 && c.start >= end {
			continue
		}
		if c.start < start {
			c.start = start
		}
		if end > 0 && c.end > end {
			c.end = end
		}
		out = append(out, c)
	}
	return out
}

func (t *transcriptAcquirer) fromSpeechToText(ctx context.Context, videoURL string, start, end float64) ([]rawCue, error) {
	audioPath, cleanup, err := t.yt.ExtractAudio(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("audio extraction: %w", err)
	}
	defer cleanup()

	audioBytes, err := readFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read extracted audio: %w", err)
	}

	result, err := t.llm.TranscribeAudio(ctx, audioBytes, "audio.mp3")
	if err != nil {
		return nil, fmt.Errorf("speech-to-text: %w", err)
	}

	// The extracted audio covers the whole video, so segment times are
	// already absolute; restrict them to [start, end) like fromCaptions.
	cues := make([]rawCue, 0, len(result.Segments))
	for _, seg := range result.Segments {
		cues = append(cues, rawCue{start: seg.Start, end: seg.End, text: seg.Text})
	}
	return windowCues(cues, start, end), nil
}

// rechunk walks cues accumulating duration until it crosses targetSeconds,
// then flushes a segment and resets (spec.md §4.2; grounded on the reference
// implementation's _create_segments_from_*_transcript accumulate-and-flush
// loop).
func rechunk(cues []rawCue, targetSeconds float64) []types.TranscriptSegment {
	if len(cues) == 0 {
		return nil
	}

	var segments []types.TranscriptSegment
	var textParts []string
	segStart := cues[0].start
	segEnd := cues[0].start

	flush := func() {
		if len(textParts) == 0 {
			return
		}
		segments = append(segments, types.TranscriptSegment{
			StartTime: segStart,
			EndTime:   segEnd,
			Text:      strings.TrimSpace(strings.Join(textParts, " ")),
		})
		textParts = nil
	}

	for _, cue := range cues {
		if len(textParts) == 0 {
			segStart = cue.start
		}
		textParts = append(textParts, cue.text)
		segEnd = cue.end

		if segEnd-segStart >= targetSeconds {
			flush()
		}
	}
	flush()

	return segments
}
