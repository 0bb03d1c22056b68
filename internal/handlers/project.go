package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/requestdata"
	"github.com/videolearn/backend/internal/types"
)

// ProjectHandler is a supplemented surface (spec.md's persistence port names
// project-video links as a first-class entity; something has to create and
// list the projects videos get linked to).
type ProjectHandler struct {
	log      *logger.Logger
	projects repos.ProjectRepo
	projVid  repos.ProjectVideoRepo
	videos   repos.VideoRepo
}

func NewProjectHandler(log *logger.Logger, projects repos.ProjectRepo, projVid repos.ProjectVideoRepo, videos repos.VideoRepo) *ProjectHandler {
	return &ProjectHandler{
		log:      log.With("handler", "ProjectHandler"),
		projects: projects,
		projVid:  projVid,
		videos:   videos,
	}
}

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	created, err := h.projects.Create(c.Request.Context(), nil, []*types.Project{{UserID: rd.UserID, Name: req.Name}})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}

	RespondOK(c, created[0])
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	projects, err := h.projects.GetByUserID(c.Request.Context(), nil, rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", err)
		return
	}
	RespondOK(c, gin.H{"projects": projects})
}

// GET /api/projects/:id/videos
func (h *ProjectHandler) ListVideos(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	links, err := h.projVid.GetByProjectID(c.Request.Context(), nil, projectID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", err)
		return
	}

	videoIDs := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		videoIDs = append(videoIDs, l.VideoID)
	}
	videos, err := h.videos.GetByIDs(c.Request.Context(), nil, videoIDs)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", err)
		return
	}

	RespondOK(c, gin.H{"videos": videos})
}
