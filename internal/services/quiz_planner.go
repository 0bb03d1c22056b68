package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/types"
)

// WeakAccuracyThreshold is the per-question accuracy below which a question
// is considered weak (spec.md §4.5).
const WeakAccuracyThreshold = 0.70

// AdaptiveFraction is the share of the question budget allocated to
// weak-focused synthesis when prior attempts exist (spec.md §4.5).
const AdaptiveFraction = 0.6

// FinalQuizQuestions is the default total question count for a generated
// quiz (spec.md §7 configuration).
const FinalQuizQuestions = 10

// QuizPlanner generates a final quiz, biasing question allocation toward a
// user's historically weak segments when prior attempts exist.
type QuizPlanner interface {
	Plan(ctx context.Context, userID *uuid.UUID, video *types.Video, segments []types.TranscriptSegment) ([]*types.Question, error)
}

type quizPlanner struct {
	log        *logger.Logger
	attempts   repos.AttemptRepo
	questions  repos.QuestionRepo
	llm        llm.Client
	flashcards FlashcardGenerator
}

func NewQuizPlanner(log *logger.Logger, attempts repos.AttemptRepo, questions repos.QuestionRepo, llmClient llm.Client, flashcards FlashcardGenerator) QuizPlanner {
	return &quizPlanner{
		log:        log.With("service", "QuizPlanner"),
		attempts:   attempts,
		questions:  questions,
		llm:        llmClient,
		flashcards: flashcards,
	}
}

type weakQuestion struct {
	questionID uuid.UUID
	accuracy   float64
}

func (p *quizPlanner) Plan(ctx context.Context, userID *uuid.UUID, video *types.Video, segments []types.TranscriptSegment) ([]*types.Question, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("cannot plan a quiz with no transcript segments")
	}

	var priorAttempts []*types.Attempt
	if userID != nil {
		all, err := p.attempts.GetByUserAndVideo(ctx, nil, *userID, video.ID)
		if err != nil {
			return nil, fmt.Errorf("load prior attempts: %w", err)
		}
		priorAttempts = all
	}

	if len(priorAttempts) == 0 {
		return p.uniformAllocation(ctx, video.ID, segments)
	}

	return p.adaptiveAllocation(ctx, video.ID, segments, priorAttempts)
}

// uniformAllocation spreads FinalQuizQuestions evenly across segments with
// no weak-area bias (spec.md §4.5 non-adaptive branch).
func (p *quizPlanner) uniformAllocation(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment) ([]*types.Question, error) {
	picked := pickSegments(segments, FinalQuizQuestions)
	questions, err := p.flashcards.GenerateForSegments(ctx, videoID, picked)
	if err != nil {
		return nil, err
	}
	return p.padWithReviewPass(ctx, videoID, questions, segments, FinalQuizQuestions)
}

// adaptiveAllocation implements the weak-question-driven 60/40 split
// (spec.md §4.5 adaptive branch). Step 1 partitions prior attempts by
// question type before ranking weak questions, so up to 10 weak flashcard
// questions and up to 10 weak quiz questions are both considered instead of
// one type crowding the other out of a single combined top-10.
func (p *quizPlanner) adaptiveAllocation(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment, attempts []*types.Attempt) ([]*types.Question, error) {
	byQuestionFlashcard := map[uuid.UUID]struct{ correct, total int }{}
	byQuestionQuiz := map[uuid.UUID]struct{ correct, total int }{}
	for _, a := range attempts {
		byQuestion := byQuestionFlashcard
		if a.QuestionType == types.QuestionTypeQuiz {
			byQuestion = byQuestionQuiz
		}
		stat := byQuestion[a.QuestionID]
		stat.total++
		if a.IsCorrect {
			stat.correct++
		}
		byQuestion[a.QuestionID] = stat
	}

	weak := append(weakFromStats(byQuestionFlashcard), weakFromStats(byQuestionQuiz)...)

	focus := p.focusSignal(ctx, weak)

	adaptiveCount := int(roundHalfAwayFromZero(AdaptiveFraction * float64(FinalQuizQuestions)))
	reviewCount := FinalQuizQuestions - adaptiveCount

	adaptivePicked := pickSegments(segments, adaptiveCount)
	reviewPicked := pickSegments(segments, reviewCount)

	var adaptiveQuestions []*types.Question
	var err error
	if focus != "" {
		adaptiveQuestions, err = p.flashcards.GenerateForSegmentsWithFocus(ctx, videoID, adaptivePicked, focus)
	} else {
		adaptiveQuestions, err = p.flashcards.GenerateForSegments(ctx, videoID, adaptivePicked)
	}
	if err != nil {
		return nil, err
	}

	reviewQuestions, err := p.flashcards.GenerateForSegments(ctx, videoID, reviewPicked)
	if err != nil {
		return nil, err
	}

	combined := append(adaptiveQuestions, reviewQuestions...)
	return p.padWithReviewPass(ctx, videoID, combined, segments, FinalQuizQuestions)
}

// weakFromStats ranks one question-type's per-question accuracy stats,
// keeping up to the 10 weakest below WeakAccuracyThreshold.
func weakFromStats(stats map[uuid.UUID]struct{ correct, total int }) []weakQuestion {
	var weak []weakQuestion
	for qid, stat := range stats {
		if stat.total == 0 {
			continue
		}
		accuracy := float64(stat.correct) / float64(stat.total)
		if accuracy < WeakAccuracyThreshold {
			weak = append(weak, weakQuestion{questionID: qid, accuracy: accuracy})
		}
	}
	sort.Slice(weak, func(i, j int) bool { return weak[i].accuracy < weak[j].accuracy })
	if len(weak) > 10 {
		weak = weak[:10]
	}
	return weak
}

// focusSignal turns the weakest question's own text into a short bias
// string passed to synthesis (spec.md §4.5: "focus signal passed to the
// LLM to bias toward weak concepts").
func (p *quizPlanner) focusSignal(ctx context.Context, weak []weakQuestion) string {
	if len(weak) == 0 {
		return ""
	}
	ids := make([]uuid.UUID, 0, len(weak))
	for _, w := range weak {
		ids = append(ids, w.questionID)
	}
	found, err := p.questions.GetByIDs(ctx, nil, ids)
	if err != nil || len(found) == 0 {
		return ""
	}
	textByID := make(map[uuid.UUID]string, len(found))
	for _, q := range found {
		textByID[q.ID] = q.QuestionText
	}
	ranked := append([]weakQuestion(nil), weak...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].accuracy < ranked[j].accuracy })
	for _, w := range ranked {
		if text, ok := textByID[w.questionID]; ok {
			return text
		}
	}
	return ""
}

// pickSegments returns up to n segments spread evenly across the full
// range, in insertion (timestamp) order.
func pickSegments(segments []types.TranscriptSegment, n int) []types.TranscriptSegment {
	if n <= 0 || len(segments) == 0 {
		return nil
	}
	if n >= len(segments) {
		return segments
	}

	picked := make([]types.TranscriptSegment, 0, n)
	step := float64(len(segments)) / float64(n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * step)
		if idx >= len(segments) {
			idx = len(segments) - 1
		}
		picked = append(picked, segments[idx])
	}
	return picked
}

// padWithReviewPass enforces the exact FinalQuizQuestions count: truncate
// when over, and when short run a further general-review synthesis pass
// instead of aliasing an already-returned question pointer (spec.md §4.5
// edge case: "pad from a final general-review pass if needed"). Review
// segments repeat when there are fewer of them than missing slots, but each
// resulting question is its own freshly-synthesized row, never a shared
// pointer, so persistence never collides on one question's primary key.
func (p *quizPlanner) padWithReviewPass(ctx context.Context, videoID uuid.UUID, questions []*types.Question, segments []types.TranscriptSegment, n int) ([]*types.Question, error) {
	if len(questions) >= n {
		return questions[:n], nil
	}
	if len(segments) == 0 {
		return questions, nil
	}

	missing := n - len(questions)
	reviewSegments := make([]types.TranscriptSegment, missing)
	for i := 0; i < missing; i++ {
		reviewSegments[i] = segments[i%len(segments)]
	}

	extra, err := p.flashcards.GenerateForSegments(ctx, videoID, reviewSegments)
	if err != nil {
		return nil, fmt.Errorf("general-review pad pass: %w", err)
	}
	return append(questions, extra...), nil
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	whole := float64(int(v))
	frac := v - whole
	if frac >= 0.5 {
		return whole + 1
	}
	return whole
}
