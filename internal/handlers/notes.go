package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/services"
	"github.com/videolearn/backend/internal/svcerr"
)

type NotesHandler struct {
	log   *logger.Logger
	notes services.NotesService
}

func NewNotesHandler(log *logger.Logger, notes services.NotesService) *NotesHandler {
	return &NotesHandler{log: log.With("handler", "NotesHandler"), notes: notes}
}

type generateNotesRequest struct {
	VideoID uuid.UUID  `json:"video_id" binding:"required"`
	UserID  *uuid.UUID `json:"user_id"`
}

// POST /api/notes/generate
func (h *NotesHandler) Generate(c *gin.Context) {
	var req generateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	notes, err := h.notes.GenerateForVideo(c.Request.Context(), req.VideoID, req.UserID)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "notes_generation_failed", err)
		return
	}

	RespondOK(c, gin.H{"notes": notes})
}
