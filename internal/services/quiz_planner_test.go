package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/types"
)

// fakeFlashcardGenerator backs padWithReviewPass tests: each call returns
// one freshly-minted Question per segment, never a shared pointer.
type fakeFlashcardGenerator struct{}

func (f *fakeFlashcardGenerator) GenerateForSegments(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment) ([]*types.Question, error) {
	out := make([]*types.Question, len(segments))
	for i := range segments {
		out[i] = &types.Question{ID: uuid.New()}
	}
	return out, nil
}

func (f *fakeFlashcardGenerator) GenerateForSegmentsWithFocus(ctx context.Context, videoID uuid.UUID, segments []types.TranscriptSegment, focus string) ([]*types.Question, error) {
	return f.GenerateForSegments(ctx, videoID, segments)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{6.0, 6},
		{6.4, 6},
		{6.5, 7},
		{6.6, 7},
		{-6.5, -7},
	}
	for _, c := range cases {
		if got := roundHalfAwayFromZero(c.in); got != c.want {
			t.Fatalf("roundHalfAwayFromZero(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAdaptiveSplit_SumsToFinalQuizQuestions(t *testing.T) {
	adaptiveCount := int(roundHalfAwayFromZero(AdaptiveFraction * float64(FinalQuizQuestions)))
	reviewCount := FinalQuizQuestions - adaptiveCount
	if adaptiveCount+reviewCount != FinalQuizQuestions {
		t.Fatalf("split does not sum to total: %d + %d != %d", adaptiveCount, reviewCount, FinalQuizQuestions)
	}
	if adaptiveCount != 6 || reviewCount != 4 {
		t.Fatalf("expected 6/4 split for a 10 question quiz, got %d/%d", adaptiveCount, reviewCount)
	}
}

func segmentsN(n int) []types.TranscriptSegment {
	out := make([]types.TranscriptSegment, n)
	for i := range out {
		out[i] = types.TranscriptSegment{StartTime: float64(i * 10), EndTime: float64(i*10 + 10)}
	}
	return out
}

func TestPickSegments_ReturnsAllWhenNExceedsLength(t *testing.T) {
	segs := segmentsN(3)
	picked := pickSegments(segs, 10)
	if len(picked) != 3 {
		t.Fatalf("expected 3, got %d", len(picked))
	}
}

func TestPickSegments_SpreadsEvenlyAndPreservesOrder(t *testing.T) {
	segs := segmentsN(20)
	picked := pickSegments(segs, 5)
	if len(picked) != 5 {
		t.Fatalf("expected 5, got %d", len(picked))
	}
	for i := 1; i < len(picked); i++ {
		if picked[i].StartTime <= picked[i-1].StartTime {
			t.Fatalf("expected increasing start times, got %v then %v", picked[i-1].StartTime, picked[i].StartTime)
		}
	}
}

func TestPickSegments_ZeroOrNegativeReturnsNil(t *testing.T) {
	segs := segmentsN(5)
	if got := pickSegments(segs, 0); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := pickSegments(segs, -1); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func questionsN(n int) []*types.Question {
	out := make([]*types.Question, n)
	for i := range out {
		out[i] = &types.Question{ID: uuid.New()}
	}
	return out
}

func TestPadWithReviewPass_ExactMatchUnchanged(t *testing.T) {
	p := &quizPlanner{flashcards: &fakeFlashcardGenerator{}}
	qs := questionsN(10)
	got, err := p.padWithReviewPass(context.Background(), uuid.New(), qs, segmentsN(5), 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
}

func TestPadWithReviewPass_TruncatesExcess(t *testing.T) {
	p := &quizPlanner{flashcards: &fakeFlashcardGenerator{}}
	qs := questionsN(15)
	got, err := p.padWithReviewPass(context.Background(), uuid.New(), qs, segmentsN(5), 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
	if got[9].ID != qs[9].ID {
		t.Fatalf("expected truncation to preserve generation order")
	}
}

func TestPadWithReviewPass_PadsWithDistinctGeneratedQuestions(t *testing.T) {
	p := &quizPlanner{flashcards: &fakeFlashcardGenerator{}}
	qs := questionsN(7)
	got, err := p.padWithReviewPass(context.Background(), uuid.New(), qs, segmentsN(3), 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
	seen := make(map[uuid.UUID]bool, len(got))
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("expected every padded question to be a distinct row, found duplicate id %v", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestWeakFromStats_KeepsUpToTenWeakestBelowThreshold(t *testing.T) {
	stats := map[uuid.UUID]struct{ correct, total int }{
		uuid.New(): {correct: 1, total: 10}, // 0.10, weak
		uuid.New(): {correct: 9, total: 10}, // 0.90, not weak
		uuid.New(): {correct: 5, total: 10}, // 0.50, weak
	}
	weak := weakFromStats(stats)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak questions, got %d: %+v", len(weak), weak)
	}
	if weak[0].accuracy > weak[1].accuracy {
		t.Fatalf("expected ascending accuracy order, got %+v", weak)
	}
}

func TestWeakFromStats_PerTypeMapsKeepMinorityType(t *testing.T) {
	// 12 weak flashcard questions and 1 weak quiz question, ranked as two
	// per-type maps the way adaptiveAllocation builds them: a single
	// combined top-10 would crowd out the quiz question entirely. Both
	// types must be represented once partitioned.
	flashcardStats := map[uuid.UUID]struct{ correct, total int }{}
	for i := 0; i < 12; i++ {
		flashcardStats[uuid.New()] = struct{ correct, total int }{correct: 0, total: 5}
	}
	quizStats := map[uuid.UUID]struct{ correct, total int }{
		uuid.New(): {correct: 0, total: 5},
	}

	flashcardWeak := weakFromStats(flashcardStats)
	quizWeak := weakFromStats(quizStats)

	if len(flashcardWeak) != 10 {
		t.Fatalf("expected flashcard weak list capped at 10, got %d", len(flashcardWeak))
	}
	if len(quizWeak) != 1 {
		t.Fatalf("expected the single weak quiz question to survive partitioning, got %d", len(quizWeak))
	}
}

func TestPadWithReviewPass_NoSegmentsLeavesCountShort(t *testing.T) {
	p := &quizPlanner{flashcards: &fakeFlashcardGenerator{}}
	got, err := p.padWithReviewPass(context.Background(), uuid.New(), nil, nil, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
