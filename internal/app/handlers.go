package app

import (
	"github.com/videolearn/backend/internal/handlers"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/sse"
)

type Handlers struct {
	Video   *handlers.VideoHandler
	Quiz    *handlers.QuizHandler
	Notes   *handlers.NotesHandler
	Reports *handlers.ReportsHandler
	User    *handlers.UserHandler
	Project *handlers.ProjectHandler
	SSE     *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, repos Repos, services Services, sseHub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Video:   handlers.NewVideoHandler(log, services.Orchestrator, repos.Video, repos.Question),
		Quiz:    handlers.NewQuizHandler(log, services.AttemptService),
		Notes:   handlers.NewNotesHandler(log, services.NotesService),
		Reports: handlers.NewReportsHandler(log, services.AttemptService, services.ReportGenerator),
		User:    handlers.NewUserHandler(log, repos.User),
		Project: handlers.NewProjectHandler(log, repos.Project, repos.ProjectVideo, repos.Video),
		SSE:     handlers.NewSSEHandler(log, sseHub),
	}
}
