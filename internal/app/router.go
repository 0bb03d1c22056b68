package app

import (
	"github.com/gin-gonic/gin"
	"github.com/videolearn/backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:  middleware.Auth,
		VideoHandler:    handlers.Video,
		QuizHandler:     handlers.Quiz,
		NotesHandler:    handlers.Notes,
		ReportsHandler:  handlers.Reports,
		UserHandler:     handlers.User,
		ProjectHandler:  handlers.Project,
		SSEHandler:      handlers.SSE,
	})
}
