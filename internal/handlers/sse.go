package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/requestdata"
	"github.com/videolearn/backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{log: log.With("handler", "SSEHandler"), hub: hub}
}

// GET /api/video/:id/events
//
// Streams the events broadcast for a single video id, subscribing the
// caller's connection for its lifetime (spec.md §5). The orchestrator
// broadcasts VideoStatusChanged on completion and VideoProcessingFailed on
// failure; no VideoBatchProgress events are emitted.
func (h *SSEHandler) Stream(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	var userID uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, videoID.String())
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
