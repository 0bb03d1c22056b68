package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/videolearn/backend/internal/handlers"
	"github.com/videolearn/backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware

	VideoHandler   *handlers.VideoHandler
	QuizHandler    *handlers.QuizHandler
	NotesHandler   *handlers.NotesHandler
	ReportsHandler *handlers.ReportsHandler
	UserHandler    *handlers.UserHandler
	ProjectHandler *handlers.ProjectHandler
	SSEHandler     *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	if cfg.VideoHandler != nil {
		api.POST("/video/process-async", cfg.VideoHandler.ProcessAsync)
		api.GET("/video/:id/status", cfg.VideoHandler.Status)
		api.GET("/video/:id/direct-url", cfg.VideoHandler.DirectURL)
		api.GET("/video/:id", cfg.VideoHandler.Get)
		api.DELETE("/video/:id", cfg.VideoHandler.Delete)
	}
	if cfg.SSEHandler != nil {
		api.GET("/video/:id/events", cfg.SSEHandler.Stream)
	}

	if cfg.QuizHandler != nil {
		api.POST("/quiz/generate", cfg.QuizHandler.Generate)
		api.POST("/quiz/submit", cfg.QuizHandler.Submit)
	}

	if cfg.NotesHandler != nil {
		api.POST("/notes/generate", cfg.NotesHandler.Generate)
	}

	if cfg.ReportsHandler != nil {
		api.POST("/reports/attempt", cfg.ReportsHandler.RecordAttempt)
		api.POST("/reports/generate", cfg.ReportsHandler.Generate)
	}

	if cfg.UserHandler != nil {
		api.GET("/users/:id/credits", cfg.UserHandler.Credits)
	}

	if cfg.ProjectHandler != nil {
		api.POST("/projects", cfg.ProjectHandler.Create)
		api.GET("/projects", cfg.ProjectHandler.List)
		api.GET("/projects/:id/videos", cfg.ProjectHandler.ListVideos)
	}

	return router
}
