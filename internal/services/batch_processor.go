package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/types"
)

// BatchWindowSeconds is the half-open window width a long video is split
// into; videos at or under this duration are processed in a single pass
// (spec.md §4.3).
const BatchWindowSeconds = 600.0

// BatchProcessor drives a video through transcription and flashcard
// generation, windowing long videos into sequential batches so a failure
// partway through does not discard already-generated work.
type BatchProcessor interface {
	Process(ctx context.Context, video *types.Video) error
}

type batchProcessor struct {
	log        *logger.Logger
	videos     repos.VideoRepo
	questions  repos.QuestionRepo
	transcript TranscriptAcquirer
	flashcards FlashcardGenerator
}

func NewBatchProcessor(log *logger.Logger, videos repos.VideoRepo, questions repos.QuestionRepo, transcript TranscriptAcquirer, flashcards FlashcardGenerator) BatchProcessor {
	return &batchProcessor{
		log:        log.With("service", "BatchProcessor"),
		videos:     videos,
		questions:  questions,
		transcript: transcript,
		flashcards: flashcards,
	}
}

func (p *batchProcessor) Process(ctx context.Context, video *types.Video) error {
	windows := windowsFor(video.Duration)

	if err := p.videos.UpdateBatchProgress(ctx, nil, video.ID, 0, len(windows)); err != nil {
		return fmt.Errorf("init batch progress: %w", err)
	}

	var allSegments []types.TranscriptSegment
	var fullTextParts []string

	for i, window := range windows {
		transcribingStatus := types.StatusTranscribing
		flashcardStatus := types.StatusGeneratingFlashcards
		if len(windows) > 1 {
			transcribingStatus = types.StatusTranscribingBatch
			flashcardStatus = types.StatusGeneratingFlashcardsBatch
		}

		if err := p.videos.UpdateStatus(ctx, nil, video.ID, transcribingStatus, ""); err != nil {
			return fmt.Errorf("update status transcribing: %w", err)
		}

		segments, err := p.transcript.Transcribe(ctx, video.URL, window.start, window.end)
		if err != nil {
			return fmt.Errorf("batch %d/%d transcription: %w", i+1, len(windows), err)
		}

		if err := p.videos.UpdateStatus(ctx, nil, video.ID, flashcardStatus, ""); err != nil {
			return fmt.Errorf("update status generating flashcards: %w", err)
		}

		questions, err := p.flashcards.GenerateForSegments(ctx, video.ID, segments)
		if err != nil {
			return fmt.Errorf("batch %d/%d flashcard generation: %w", i+1, len(windows), err)
		}
		if _, err := p.questions.Create(ctx, nil, questions); err != nil {
			return fmt.Errorf("batch %d/%d persist questions: %w", i+1, len(windows), err)
		}

		allSegments = append(allSegments, segments...)
		for _, seg := range segments {
			fullTextParts = append(fullTextParts, seg.Text)
		}

		if err := p.videos.UpdateBatchProgress(ctx, nil, video.ID, i+1, len(windows)); err != nil {
			return fmt.Errorf("update batch progress: %w", err)
		}
	}

	transcriptPayload := types.Transcript{
		Segments: allSegments,
		FullText: strings.TrimSpace(strings.Join(fullTextParts, " ")),
		Duration: video.Duration,
	}
	transcriptJSON, err := json.Marshal(transcriptPayload)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := p.videos.UpdateTranscript(ctx, nil, video.ID, transcriptJSON); err != nil {
		return fmt.Errorf("persist full transcript: %w", err)
	}

	if err := p.videos.UpdateBatchProgress(ctx, nil, video.ID, 0, 0); err != nil {
		return fmt.Errorf("reset batch progress: %w", err)
	}
	if err := p.videos.UpdateStatus(ctx, nil, video.ID, types.StatusCompleted, ""); err != nil {
		return fmt.Errorf("update status completed: %w", err)
	}

	return nil
}

type window struct {
	start float64
	end   float64
}

// windowsFor partitions [0, duration) into half-open BatchWindowSeconds
// windows, returning a single full-duration window when duration is at or
// under the threshold (spec.md §4.3).
func windowsFor(duration float64) []window {
	if duration <= BatchWindowSeconds {
		return []window{{start: 0, end: duration}}
	}

	var windows []window
	for start := 0.0; start < duration; start += BatchWindowSeconds {
		end := start + BatchWindowSeconds
		if end > duration {
			end = duration
		}
		windows = append(windows, window{start: start, end: end})
	}
	return windows
}
