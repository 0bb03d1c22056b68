package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/db"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *sse.SSEHub
	cancel   context.CancelFunc
}

func New() (*App, error) {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// Config
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	// Postgres
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	// SSEHub
	ssehub := sse.NewSSEHub(log)
	// Repos
	reposet := wireRepos(theDB, log)
	// Infrastructure clients
	clientset, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	// Services
	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset, ssehub)
	if err != nil {
		log.Sync()
		return nil, err
	}
	// Handlers
	handlerset := wireHandlers(log, reposet, serviceset, ssehub)
	// Middleware
	middleware := wireMiddleware(log, cfg)
	// Router
	router := wireRouter(handlerset, middleware)

	// App
	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clientset,
		SSEHub:   ssehub,
	}, nil
}

// Start launches background components: the orchestrator's job consumer
// (when runWorker) and the redis SSE forwarder (whenever a bus is
// configured), which relays messages published on the bus into the local
// hub. Nothing in this service publishes to the bus; the orchestrator
// broadcasts only to the hub of the instance that ran the job.
func (a *App) Start(_, runWorker bool) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if runWorker && a.Services.Orchestrator != nil {
		a.Services.Orchestrator.StartWorker(ctx)
	}

	if a.Clients.SSEBus != nil && a.SSEHub != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			a.Log.Warn("failed to start SSE redis forwarder", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Lock != nil {
		_ = a.Clients.Lock.Close()
	}
	if a.Clients.SSEBus != nil {
		_ = a.Clients.SSEBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
