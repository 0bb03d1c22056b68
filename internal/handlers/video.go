package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/services"
	"github.com/videolearn/backend/internal/svcerr"
)

type VideoHandler struct {
	log          *logger.Logger
	orchestrator services.Orchestrator
	videos       repos.VideoRepo
	questions    repos.QuestionRepo
}

func NewVideoHandler(log *logger.Logger, orchestrator services.Orchestrator, videos repos.VideoRepo, questions repos.QuestionRepo) *VideoHandler {
	return &VideoHandler{
		log:          log.With("handler", "VideoHandler"),
		orchestrator: orchestrator,
		videos:       videos,
		questions:    questions,
	}
}

type processVideoRequest struct {
	VideoURL  string     `json:"video_url" binding:"required"`
	Title     string     `json:"title"`
	ProjectID *uuid.UUID `json:"project_id"`
	UserID    *uuid.UUID `json:"user_id"`
}

// POST /api/video/process-async
func (h *VideoHandler) ProcessAsync(c *gin.Context) {
	var req processVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	summary, err := h.orchestrator.ProcessVideoAsync(c.Request.Context(), services.ProcessVideoRequest{
		URL:       req.VideoURL,
		Title:     req.Title,
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
	})
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "process_failed", err)
		return
	}

	if summary.AlreadyProcessed {
		RespondOK(c, gin.H{
			"video_id":          summary.VideoID,
			"processing_status": summary.ProcessingStatus,
			"transcript":        summary.Transcript,
			"questions":         summary.Questions,
			"message":           "Video already processed",
		})
		return
	}

	RespondOK(c, gin.H{
		"video_id":          summary.VideoID,
		"processing_status": summary.ProcessingStatus,
		"message":           "processing started",
	})
}

// GET /api/video/:id/status
func (h *VideoHandler) Status(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	status, err := h.orchestrator.Status(c.Request.Context(), videoID)
	if err != nil {
		RespondError(c, svcerr.StatusOf(err), "status_failed", err)
		return
	}
	RespondOK(c, status)
}

// GET /api/video/:id
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	video, err := h.videos.GetByID(c.Request.Context(), nil, videoID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	questions, err := h.questions.GetByVideoID(c.Request.Context(), nil, videoID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", err)
		return
	}

	RespondOK(c, gin.H{"video": video, "questions": questions})
}

// GET /api/video/:id/direct-url
func (h *VideoHandler) DirectURL(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	video, err := h.videos.GetByID(c.Request.Context(), nil, videoID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondOK(c, gin.H{"video_id": video.ID, "url": video.URL})
}

// DELETE /api/video/:id?project_id=...
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
		projectID = &parsed
	}

	if err := h.orchestrator.Delete(c.Request.Context(), videoID, projectID); err != nil {
		RespondError(c, svcerr.StatusOf(err), "delete_failed", err)
		return
	}

	// Unlinking the last project runs the full cascade, so the video is gone.
	deletedCompletely := projectID == nil
	if !deletedCompletely {
		if _, err := h.videos.GetByID(c.Request.Context(), nil, videoID); err != nil {
			deletedCompletely = true
		}
	}

	RespondOK(c, gin.H{"message": "deleted", "deleted_completely": deletedCompletely})
}
