package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

var flashcardSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"question", "options", "correct_index", "explanation", "difficulty"},
	"properties": map[string]any{
		"question": map[string]any{"type": "string"},
		"options": map[string]any{
			"type":     "array",
			"minItems": 4,
			"maxItems": 4,
			"items":    map[string]any{"type": "string"},
		},
		"correct_index": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
		"explanation":   map[string]any{"type": "string"},
		"difficulty":    map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
	},
}

const flashcardSystemPrompt = `You write a single multiple-choice flashcard question that tests understanding of a video transcript segment. Use the surrounding context only to disambiguate the segment, never to ask about the neighboring content directly. Produce exactly four options, exactly one correct.`

// FlashcardGenerator produces one question per transcript segment, using
// the immediately adjacent segments as disambiguating context but never
// asking about them directly (spec.md §4.4).
type FlashcardGenerator interface {
	GenerateForSegments(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment) ([]*types.Question, error)
	// GenerateForSegmentsWithFocus is the adaptive quiz variant: focus
	// biases synthesis toward a named weak concept and raises difficulty
	// to medium/hard (spec.md §4.5 adaptive branch).
	GenerateForSegmentsWithFocus(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment, focus string) ([]*types.Question, error)
}

type flashcardGenerator struct {
	log *logger.Logger
	llm llm.Client
}

func NewFlashcardGenerator(log *logger.Logger, llmClient llm.Client) FlashcardGenerator {
	return &flashcardGenerator{log: log.With("service", "FlashcardGenerator"), llm: llmClient}
}

type flashcardPayload struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Difficulty   string   `json:"difficulty"`
}

func (g *flashcardGenerator) GenerateForSegments(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment) ([]*types.Question, error) {
	return g.generateForSegments(ctx, videoID, segments, "")
}

func (g *flashcardGenerator) GenerateForSegmentsWithFocus(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment, focus string) ([]*types.Question, error) {
	return g.generateForSegments(ctx, videoID, segments, focus)
}

func (g *flashcardGenerator) generateForSegments(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment, focus string) ([]*types.Question, error) {
	questions := make([]*types.Question, 0, len(segments))
	for i, seg := range segments {
		q := g.generateOne(ctx, segments, i, focus)
		q.VideoID = videoID
		q.SegmentStartTime = seg.StartTime
		q.SegmentEndTime = seg.EndTime
		q.SegmentText = seg.Text
		showAt := seg.EndTime
		q.ShowAtTimestamp = &showAt
		if focus != "" {
			q.Difficulty = types.DifficultyHard
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (g *flashcardGenerator) generateOne(ctx context.Context, segments []types.TranscriptSegment, index int, focus string) *types.Question {
	current := segments[index]

	user := fmt.Sprintf("Segment to test:\n%s\n", current.Text)
	if index > 0 {
		user += fmt.Sprintf("\nPrevious segment (context only):\n%s\n", segments[index-1].Text)
	}
	if index < len(segments)-1 {
		user += fmt.Sprintf("\nNext segment (context only):\n%s\n", segments[index+1].Text)
	}
	if focus != "" {
		user += fmt.Sprintf("\nBias this question toward the user's weak concept: %q. Make it medium or hard difficulty.\n", focus)
	}

	raw, err := g.llm.GenerateJSON(ctx, flashcardSystemPrompt, user, "flashcard_question", flashcardSchema)
	if err != nil {
		g.log.Warn("flashcard generation failed, using deterministic fallback", "error", err, "segment_index", index)
		return fallbackQuestion(current)
	}

	payload, err := decodeFlashcard(raw)
	if err != nil {
		g.log.Warn("flashcard payload decode failed, using deterministic fallback", "error", err, "segment_index", index)
		return fallbackQuestion(current)
	}

	optionsJSON, err := json.Marshal(payload.Options)
	if err != nil {
		return fallbackQuestion(current)
	}

	difficulty := types.Difficulty(payload.Difficulty)
	switch difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
	default:
		difficulty = types.DifficultyMedium
	}

	return &types.Question{
		QuestionText:  payload.Question,
		Options:       optionsJSON,
		CorrectAnswer: payload.CorrectIndex,
		Explanation:   payload.Explanation,
		Difficulty:    difficulty,
	}
}

func decodeFlashcard(raw map[string]any) (*flashcardPayload, error) {
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var payload flashcardPayload
	if err := json.Unmarshal(bytes, &payload); err != nil {
		return nil, err
	}
	if len(payload.Options) != 4 {
		return nil, fmt.Errorf("expected 4 options, got %d", len(payload.Options))
	}
	if payload.CorrectIndex < 0 || payload.CorrectIndex > 3 {
		return nil, fmt.Errorf("correct_index %d out of range", payload.CorrectIndex)
	}
	return &payload, nil
}

// fallbackQuestion produces a deterministic, clearly-marked placeholder when
// LLM synthesis or parsing fails, so a single bad segment never aborts the
// whole batch (spec.md §4.4 edge cases).
func fallbackQuestion(segment types.TranscriptSegment) *types.Question {
	options := []string{
		"Review this segment of the video to answer",
		"Option B",
		"Option C",
		"Option D",
	}
	optionsJSON, _ := json.Marshal(options)
	return &types.Question{
		QuestionText:  "What is the main idea of this part of the video?",
		Options:       optionsJSON,
		CorrectAnswer: 0,
		Explanation:   "Generated as a placeholder; automatic question synthesis failed for this segment.",
		Difficulty:    types.DifficultyMedium,
	}
}
