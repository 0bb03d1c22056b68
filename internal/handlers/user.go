package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
)

type UserHandler struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserHandler(log *logger.Logger, users repos.UserRepo) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), users: users}
}

// GET /api/users/:id/credits
func (h *UserHandler) Credits(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), nil, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}

	RespondOK(c, gin.H{
		"transcription_credits": user.TranscriptionCredits,
		"notes_credits":         user.NotesCredits,
		"role":                  user.Role,
		"has_unlimited":         user.HasUnlimitedCredits(),
	})
}
