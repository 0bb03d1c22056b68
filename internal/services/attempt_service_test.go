package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/types"
)

// fakeQuestionRepo and fakeAttemptRepo back the RecordAttempt tests below; both satisfy their full repo interfaces but only implement
// the methods these tests actually exercise.

type fakeQuestionRepo struct {
	byID map[uuid.UUID]*types.Question
}

func (f *fakeQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
	return questions, nil
}
func (f *fakeQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error) {
	out := make([]*types.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := f.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
func (f *fakeQuestionRepo) GetByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) ([]*types.Question, error) {
	return nil, nil
}
func (f *fakeQuestionRepo) FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
	return nil
}

type fakeAttemptRepo struct {
	created []*types.Attempt
	counts  map[uuid.UUID]int
}

func (f *fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.Attempt) ([]*types.Attempt, error) {
	for _, a := range attempts {
		a.ID = uuid.New()
		f.created = append(f.created, a)
		f.counts[a.QuestionID]++
	}
	return attempts, nil
}
func (f *fakeAttemptRepo) GetByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) ([]*types.Attempt, error) {
	return nil, nil
}
func (f *fakeAttemptRepo) GetByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) ([]*types.Attempt, error) {
	return nil, nil
}
func (f *fakeAttemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.Attempt, error) {
	return nil, nil
}
func (f *fakeAttemptRepo) CountByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) (int, error) {
	return f.counts[questionID], nil
}
func (f *fakeAttemptRepo) FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
	return nil
}

func newTestAttemptService(questions *fakeQuestionRepo, attempts *fakeAttemptRepo) *attemptService {
	return &attemptService{
		questions: questions,
		attempts:  attempts,
	}
}

func TestRecordAttempt_FirstAttemptNumberIsOne(t *testing.T) {
	qid := uuid.New()
	questions := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{qid: {ID: qid, CorrectAnswer: 2}}}
	attempts := &fakeAttemptRepo{counts: map[uuid.UUID]int{}}
	s := newTestAttemptService(questions, attempts)

	attempt, err := s.RecordAttempt(context.Background(), uuid.New(), uuid.New(), qid, types.QuestionTypeFlashcard, 2, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if attempt.AttemptNumber != 1 {
		t.Fatalf("expected attempt_number=1, got %d", attempt.AttemptNumber)
	}
	if !attempt.IsCorrect {
		t.Fatalf("expected correct answer to grade as correct")
	}
}

func TestRecordAttempt_NumberIncrementsMonotonically(t *testing.T) {
	qid := uuid.New()
	userID := uuid.New()
	videoID := uuid.New()
	questions := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{qid: {ID: qid, CorrectAnswer: 0}}}
	attempts := &fakeAttemptRepo{counts: map[uuid.UUID]int{}}
	s := newTestAttemptService(questions, attempts)

	for i := 1; i <= 3; i++ {
		attempt, err := s.RecordAttempt(context.Background(), userID, videoID, qid, types.QuestionTypeFlashcard, 1, nil)
		if err != nil {
			t.Fatalf("unexpected err on attempt %d: %v", i, err)
		}
		if attempt.AttemptNumber != i {
			t.Fatalf("attempt %d: expected attempt_number=%d, got %d", i, i, attempt.AttemptNumber)
		}
	}
}

func TestRecordAttempt_WrongAnswerGradesIncorrect(t *testing.T) {
	qid := uuid.New()
	questions := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{qid: {ID: qid, CorrectAnswer: 1}}}
	attempts := &fakeAttemptRepo{counts: map[uuid.UUID]int{}}
	s := newTestAttemptService(questions, attempts)

	attempt, err := s.RecordAttempt(context.Background(), uuid.New(), uuid.New(), qid, types.QuestionTypeFlashcard, 3, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if attempt.IsCorrect {
		t.Fatalf("expected mismatched answer to grade incorrect")
	}
	if attempt.CorrectAnswer != 1 {
		t.Fatalf("expected correct answer echoed from question, got %d", attempt.CorrectAnswer)
	}
}

func TestRecordAttempt_UnknownQuestionReturnsNotFound(t *testing.T) {
	questions := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{}}
	attempts := &fakeAttemptRepo{counts: map[uuid.UUID]int{}}
	s := newTestAttemptService(questions, attempts)

	_, err := s.RecordAttempt(context.Background(), uuid.New(), uuid.New(), uuid.New(), types.QuestionTypeFlashcard, 0, nil)
	if err == nil {
		t.Fatalf("expected error for unknown question")
	}
}
