package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/types"
)

func mkAttempt(questionID uuid.UUID, quizID *uuid.UUID, qtype types.QuestionType, correct bool) *types.Attempt {
	return &types.Attempt{
		ID:           uuid.New(),
		QuestionID:   questionID,
		QuizID:       quizID,
		QuestionType: qtype,
		IsCorrect:    correct,
	}
}

// TestAggregatePerformance_QuizAverageIsMeanOfSessionsNotFlatMean is the
// worked example distinguishing a mean-of-sessions quiz average from a flat
// mean over every individual attempt: session A scores 1/2 (50%), session B
// scores 3/3 (100%). A flat mean over attempts would read 4/5 = 80%; the
// mean-of-sessions rule reads (50+100)/2 = 75%.
func TestAggregatePerformance_QuizAverageIsMeanOfSessionsNotFlatMean(t *testing.T) {
	quizA := uuid.New()
	quizB := uuid.New()

	attempts := []*types.Attempt{
		mkAttempt(uuid.New(), &quizA, types.QuestionTypeQuiz, true),
		mkAttempt(uuid.New(), &quizA, types.QuestionTypeQuiz, false),
		mkAttempt(uuid.New(), &quizB, types.QuestionTypeQuiz, true),
		mkAttempt(uuid.New(), &quizB, types.QuestionTypeQuiz, true),
		mkAttempt(uuid.New(), &quizB, types.QuestionTypeQuiz, true),
	}

	stats := aggregatePerformance(attempts)
	want := 75.0
	if stats.QuizAverageScore != want {
		t.Fatalf("QuizAverageScore = %v, want %v (flat mean would incorrectly give 80)", stats.QuizAverageScore, want)
	}
}

func TestAggregatePerformance_IgnoresFlashcardsInQuizAverage(t *testing.T) {
	quizA := uuid.New()
	attempts := []*types.Attempt{
		mkAttempt(uuid.New(), &quizA, types.QuestionTypeQuiz, true),
		mkAttempt(uuid.New(), &quizA, types.QuestionTypeQuiz, true),
		mkAttempt(uuid.New(), nil, types.QuestionTypeFlashcard, false),
		mkAttempt(uuid.New(), nil, types.QuestionTypeFlashcard, false),
	}
	stats := aggregatePerformance(attempts)
	if stats.QuizAverageScore != 100 {
		t.Fatalf("expected flashcard attempts excluded from quiz average, got %v", stats.QuizAverageScore)
	}
	if stats.Total != 4 || stats.Correct != 2 {
		t.Fatalf("expected overall totals to include flashcards: total=%d correct=%d", stats.Total, stats.Correct)
	}
}

func TestAggregatePerformance_NoQuizSessionsLeavesAverageZero(t *testing.T) {
	attempts := []*types.Attempt{
		mkAttempt(uuid.New(), nil, types.QuestionTypeFlashcard, true),
	}
	stats := aggregatePerformance(attempts)
	if stats.QuizAverageScore != 0 {
		t.Fatalf("expected 0, got %v", stats.QuizAverageScore)
	}
}

func TestAggregatePerformance_PerQuestionAccuracy(t *testing.T) {
	q1 := uuid.New()
	attempts := []*types.Attempt{
		mkAttempt(q1, nil, types.QuestionTypeFlashcard, true),
		mkAttempt(q1, nil, types.QuestionTypeFlashcard, false),
		mkAttempt(q1, nil, types.QuestionTypeFlashcard, true),
	}
	stats := aggregatePerformance(attempts)
	s := stats.PerQuestion[q1.String()]
	if s.Total != 3 || s.Correct != 2 {
		t.Fatalf("unexpected per-question stat: %+v", s)
	}
	want := 2.0 / 3.0
	if s.Accuracy != want {
		t.Fatalf("accuracy = %v, want %v", s.Accuracy, want)
	}
}

func TestAggregateBreakdown_CountsByType(t *testing.T) {
	attempts := []*types.Attempt{
		mkAttempt(uuid.New(), nil, types.QuestionTypeFlashcard, true),
		mkAttempt(uuid.New(), nil, types.QuestionTypeFlashcard, false),
		mkAttempt(uuid.New(), nil, types.QuestionTypeQuiz, true),
	}
	b := aggregateBreakdown(attempts)
	if b.Flashcards != 2 || b.Quiz != 1 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
}

func TestPartitionMastery_BucketsByThreshold(t *testing.T) {
	perQuestion := map[string]stat{
		"mastered-1":     {Accuracy: 0.9},
		"learning-1":     {Accuracy: 0.6},
		"needs-review-1": {Accuracy: 0.2},
		"boundary-high":  {Accuracy: MasteryThresholdMastered},
		"boundary-low":   {Accuracy: MasteryThresholdLearning},
	}
	m := partitionMastery(perQuestion)
	if len(m.Mastered) != 2 {
		t.Fatalf("expected 2 mastered (boundary inclusive), got %d: %+v", len(m.Mastered), m.Mastered)
	}
	if len(m.Learning) != 2 {
		t.Fatalf("expected 2 learning (boundary inclusive), got %d: %+v", len(m.Learning), m.Learning)
	}
	if len(m.NeedsReview) != 1 {
		t.Fatalf("expected 1 needs_review, got %d: %+v", len(m.NeedsReview), m.NeedsReview)
	}
}

func TestWordFrequency_FiltersStopWordsAndShortWords(t *testing.T) {
	freq := wordFrequency("the cat and a dog are both learning golang concurrency golang concurrency golang")
	if _, ok := freq["the"]; ok {
		t.Fatalf("expected stop word filtered out")
	}
	if _, ok := freq["and"]; ok {
		t.Fatalf("expected stop word filtered out")
	}
	if _, ok := freq["cat"]; ok {
		t.Fatalf("expected short word (<=3 chars) filtered out")
	}
	if freq["golang"] != 3 {
		t.Fatalf("expected golang counted 3 times, got %d", freq["golang"])
	}
}

func TestWordFrequency_CapsToTop30ByDescendingCount(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		for j := 0; j <= i%5; j++ {
			sb.WriteString(fmt.Sprintf("uniqueword%d ", i))
		}
	}
	freq := wordFrequency(sb.String())
	if len(freq) > 30 {
		t.Fatalf("expected at most 30 keywords, got %d", len(freq))
	}
}

func TestCapList_TruncatesToN(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	if got := capList(items, 2); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := capList(items, 10); len(got) != 4 {
		t.Fatalf("expected 4, got %d", len(got))
	}
}
