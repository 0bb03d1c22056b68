package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/services"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

type ReportsHandler struct {
	log      *logger.Logger
	attempts services.AttemptService
	reports  services.ReportGenerator
}

func NewReportsHandler(log *logger.Logger, attempts services.AttemptService, reports services.ReportGenerator) *ReportsHandler {
	return &ReportsHandler{
		log:      log.With("handler", "ReportsHandler"),
		attempts: attempts,
		reports:  reports,
	}
}

type recordAttemptRequest struct {
	UserID         uuid.UUID          `json:"user_id" binding:"required"`
	VideoID        uuid.UUID          `json:"video_id" binding:"required"`
	QuestionID     uuid.UUID          `json:"question_id" binding:"required"`
	QuestionType   types.QuestionType `json:"question_type" binding:"required"`
	SelectedAnswer int                `json:"selected_answer"`
	QuizID         *uuid.UUID         `json:"quiz_id"`
}

// POST /api/reports/attempt
func (h *ReportsHandler) RecordAttempt(c *gin.Context) {
	var req recordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	attempt, err := h.attempts.RecordAttempt(c.Request.Context(), req.UserID, req.VideoID, req.QuestionID, req.QuestionType, req.SelectedAnswer, req.QuizID)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "record_attempt_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"success":        true,
		"is_correct":     attempt.IsCorrect,
		"attempt_number": attempt.AttemptNumber,
	})
}

type generateReportRequest struct {
	UserID  uuid.UUID  `json:"user_id" binding:"required"`
	VideoID uuid.UUID  `json:"video_id" binding:"required"`
	QuizID  *uuid.UUID `json:"quiz_id"`
}

// POST /api/reports/generate
func (h *ReportsHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), req.UserID, req.VideoID, req.QuizID)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "report_generation_failed", err)
		return
	}

	RespondOK(c, gin.H{"report_id": report.ID, "report": report})
}
