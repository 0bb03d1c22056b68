package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/requestdata"
	"github.com/videolearn/backend/internal/services"
	"github.com/videolearn/backend/internal/svcerr"
)

type QuizHandler struct {
	log      *logger.Logger
	attempts services.AttemptService
}

func NewQuizHandler(log *logger.Logger, attempts services.AttemptService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), attempts: attempts}
}

type generateQuizRequest struct {
	VideoID uuid.UUID  `json:"video_id" binding:"required"`
	UserID  *uuid.UUID `json:"user_id"`
}

// POST /api/quiz/generate
func (h *QuizHandler) Generate(c *gin.Context) {
	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	quiz, questions, err := h.attempts.GenerateQuiz(c.Request.Context(), req.VideoID, req.UserID)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "quiz_generation_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"quiz_id":        quiz.ID,
		"questions":      questions,
		"total_questions": len(questions),
	})
}

type submitQuizRequest struct {
	QuizID  uuid.UUID                   `json:"quiz_id" binding:"required"`
	Answers []services.AnswerSubmission `json:"answers" binding:"required"`
}

// POST /api/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	result, err := h.attempts.SubmitQuiz(c.Request.Context(), rd.UserID, req.QuizID, req.Answers)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "quiz_submit_failed", err)
		return
	}

	RespondOK(c, result)
}
