package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

// AnswerSubmission is one graded answer within a quiz submission.
type AnswerSubmission struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer int       `json:"selected_answer"`
}

// QuestionResult is one graded entry in a QuizResult.
type QuestionResult struct {
	QuestionID     uuid.UUID `json:"question_id"`
	IsCorrect      bool      `json:"is_correct"`
	CorrectAnswer  int       `json:"correct_answer"`
	SelectedAnswer int       `json:"selected_answer"`
	Explanation    string    `json:"explanation,omitempty"`
}

// QuizResult is the response to a quiz submission (spec.md §6).
type QuizResult struct {
	QuizID        uuid.UUID        `json:"quiz_id"`
	Total         int              `json:"total"`
	Correct       int              `json:"correct"`
	ScorePercent  float64          `json:"score_percent"`
	Results       []QuestionResult `json:"results"`
}

// AttemptService records individual question attempts and drives quiz
// generation/submission, both of which are append-only on top of Attempt
// (spec.md §3: attempt_number = 1 + count of prior attempts by the same
// (user_id, question_id)).
type AttemptService interface {
	RecordAttempt(ctx context.Context, userID, videoID, questionID uuid.UUID, questionType types.QuestionType, selectedAnswer int, quizID *uuid.UUID) (*types.Attempt, error)
	GenerateQuiz(ctx context.Context, videoID uuid.UUID, userID *uuid.UUID) (*types.Quiz, []*types.Question, error)
	SubmitQuiz(ctx context.Context, userID, quizID uuid.UUID, answers []AnswerSubmission) (*QuizResult, error)
}

type attemptService struct {
	log       *logger.Logger
	ledger    CreditLedger
	planner   QuizPlanner
	videos    repos.VideoRepo
	questions repos.QuestionRepo
	quizzes   repos.QuizRepo
	quizQs    repos.QuizQuestionRepo
	attempts  repos.AttemptRepo
}

func NewAttemptService(
	log *logger.Logger,
	ledger CreditLedger,
	planner QuizPlanner,
	videos repos.VideoRepo,
	questions repos.QuestionRepo,
	quizzes repos.QuizRepo,
	quizQs repos.QuizQuestionRepo,
	attempts repos.AttemptRepo,
) AttemptService {
	return &attemptService{
		log:       log.With("service", "AttemptService"),
		ledger:    ledger,
		planner:   planner,
		videos:    videos,
		questions: questions,
		quizzes:   quizzes,
		quizQs:    quizQs,
		attempts:  attempts,
	}
}

func (s *attemptService) RecordAttempt(ctx context.Context, userID, videoID, questionID uuid.UUID, questionType types.QuestionType, selectedAnswer int, quizID *uuid.UUID) (*types.Attempt, error) {
	question, err := s.questions.GetByIDs(ctx, nil, []uuid.UUID{questionID})
	if err != nil || len(question) == 0 {
		return nil, svcerr.NotFound(fmt.Errorf("question %s", questionID))
	}

	priorCount, err := s.attempts.CountByUserAndQuestion(ctx, nil, userID, questionID)
	if err != nil {
		return nil, fmt.Errorf("count prior attempts: %w", err)
	}

	correctAnswer := question[0].CorrectAnswer
	attempt := &types.Attempt{
		UserID:         userID,
		VideoID:        videoID,
		QuestionID:     questionID,
		QuizID:         quizID,
		QuestionType:   questionType,
		SelectedAnswer: selectedAnswer,
		CorrectAnswer:  correctAnswer,
		IsCorrect:      selectedAnswer == correctAnswer,
		AttemptNumber:  priorCount + 1,
	}

	created, err := s.attempts.Create(ctx, nil, []*types.Attempt{attempt})
	if err != nil {
		return nil, fmt.Errorf("persist attempt: %w", err)
	}
	return created[0], nil
}

func (s *attemptService) GenerateQuiz(ctx context.Context, videoID uuid.UUID, userID *uuid.UUID) (*types.Quiz, []*types.Question, error) {
	video, err := s.videos.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, nil, svcerr.NotFound(fmt.Errorf("video %s: %w", videoID, err))
	}
	if video.ProcessingStatus != types.StatusCompleted {
		return nil, nil, svcerr.InvalidArgument(fmt.Errorf("video %s is not completed", videoID))
	}

	var transcript types.Transcript
	if len(video.Transcript) > 0 {
		if err := json.Unmarshal(video.Transcript, &transcript); err != nil {
			return nil, nil, fmt.Errorf("parse transcript: %w", err)
		}
	}
	if len(transcript.Segments) == 0 {
		return nil, nil, svcerr.InvalidArgument(fmt.Errorf("video %s has no transcript segments", videoID))
	}

	if userID != nil {
		user, err := s.ledger.GetUser(ctx, *userID)
		if err != nil {
			return nil, nil, err
		}
		cost := s.ledger.QuizCost()
		if ok, available := s.ledger.HasCredits(ctx, user, types.CreditTypeNotes, cost); !ok {
			return nil, nil, svcerr.NewInsufficientCredits(cost, available)
		}
	}

	questions, err := s.planner.Plan(ctx, userID, video, transcript.Segments)
	if err != nil {
		return nil, nil, svcerr.LLMSynthesisFailed(err)
	}

	created, err := s.questions.Create(ctx, nil, questions)
	if err != nil {
		return nil, nil, fmt.Errorf("persist quiz questions: %w", err)
	}

	quiz := &types.Quiz{VideoID: videoID, UserID: userID}
	createdQuizzes, err := s.quizzes.Create(ctx, nil, []*types.Quiz{quiz})
	if err != nil {
		return nil, nil, fmt.Errorf("persist quiz: %w", err)
	}
	quiz = createdQuizzes[0]

	links := make([]*types.QuizQuestion, 0, len(created))
	for i, q := range created {
		links = append(links, &types.QuizQuestion{QuizID: quiz.ID, QuestionID: q.ID, Position: i})
	}
	if _, err := s.quizQs.Create(ctx, nil, links); err != nil {
		return nil, nil, fmt.Errorf("persist quiz question links: %w", err)
	}

	if userID != nil {
		user, err := s.ledger.GetUser(ctx, *userID)
		if err == nil {
			if err := s.ledger.Deduct(ctx, nil, user, types.CreditTypeNotes, s.ledger.QuizCost(), &videoID, nil, "quiz generation"); err != nil {
				s.log.Error("failed to deduct quiz generation credits", "video_id", videoID, "error", err)
			}
		}
	}

	return quiz, created, nil
}

func (s *attemptService) SubmitQuiz(ctx context.Context, userID, quizID uuid.UUID, answers []AnswerSubmission) (*QuizResult, error) {
	quiz, err := s.quizzes.GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, svcerr.NotFound(fmt.Errorf("quiz %s: %w", quizID, err))
	}

	links, err := s.quizQs.GetByQuizID(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz questions: %w", err)
	}
	questionIDs := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		questionIDs = append(questionIDs, l.QuestionID)
	}
	questions, err := s.questions.GetByIDs(ctx, nil, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	byID := map[uuid.UUID]*types.Question{}
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := &QuizResult{QuizID: quizID}
	for _, ans := range answers {
		question, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		attempt, err := s.RecordAttempt(ctx, userID, quiz.VideoID, ans.QuestionID, types.QuestionTypeQuiz, ans.SelectedAnswer, &quizID)
		if err != nil {
			return nil, fmt.Errorf("record attempt for question %s: %w", ans.QuestionID, err)
		}

		result.Total++
		if attempt.IsCorrect {
			result.Correct++
		}
		result.Results = append(result.Results, QuestionResult{
			QuestionID:     ans.QuestionID,
			IsCorrect:      attempt.IsCorrect,
			CorrectAnswer:  question.CorrectAnswer,
			SelectedAnswer: ans.SelectedAnswer,
			Explanation:    question.Explanation,
		})
	}

	if result.Total > 0 {
		result.ScorePercent = float64(result.Correct) / float64(result.Total) * 100
	}

	return result, nil
}
