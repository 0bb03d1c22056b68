package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/clients/redis"
	"github.com/videolearn/backend/internal/clients/ytdlp"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/services"
	"github.com/videolearn/backend/internal/sse"
)

type Services struct {
	CreditLedger       services.CreditLedger
	VideoIntake        services.VideoIntake
	TranscriptAcquirer services.TranscriptAcquirer
	BatchProcessor     services.BatchProcessor
	FlashcardGenerator services.FlashcardGenerator
	QuizPlanner        services.QuizPlanner
	NotesGenerator     services.NotesGenerator
	ReportGenerator    services.ReportGenerator
	AttemptService     services.AttemptService
	NotesService       services.NotesService
	Orchestrator       services.Orchestrator
}

type Clients struct {
	LLM    llm.Client
	YTDLP  *ytdlp.Client
	Lock   redis.VideoLock
	SSEBus redis.SSEBus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring infrastructure clients...")

	llmClient, err := llm.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}

	ytClient := ytdlp.NewClient(log, cfg.SocketTimeoutSeconds, cfg.WhisperTempDir)

	lock, err := redis.NewVideoLock(log)
	if err != nil {
		log.Warn("video lock unavailable, background jobs will run without mutual exclusion", "error", err)
	}

	bus, err := redis.NewSSEBus(log)
	if err != nil {
		log.Warn("redis SSE bus unavailable, events stay local to this instance", "error", err)
	}

	return Clients{LLM: llmClient, YTDLP: ytClient, Lock: lock, SSEBus: bus}, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, sseHub *sse.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	creditLedger := services.NewCreditLedger(log, repos.User, repos.CreditHistory)
	videoIntake := services.NewVideoIntake(log, clients.YTDLP)
	transcriptAcquirer := services.NewTranscriptAcquirer(log, clients.YTDLP, clients.LLM)
	flashcardGenerator := services.NewFlashcardGenerator(log, clients.LLM)
	batchProcessor := services.NewBatchProcessor(log, repos.Video, repos.Question, transcriptAcquirer, flashcardGenerator)
	quizPlanner := services.NewQuizPlanner(log, repos.Attempt, repos.Question, clients.LLM, flashcardGenerator)
	notesGenerator := services.NewNotesGenerator(log, clients.LLM, repos.Notes)
	reportGenerator := services.NewReportGenerator(log, clients.LLM, repos.Video, repos.Question, repos.Attempt, repos.Report)

	attemptService := services.NewAttemptService(log, creditLedger, quizPlanner, repos.Video, repos.Question, repos.Quiz, repos.QuizQuestion, repos.Attempt)
	notesService := services.NewNotesService(log, notesGenerator, creditLedger, repos.Video)

	orchestrator := services.NewOrchestrator(
		log,
		videoIntake,
		creditLedger,
		batchProcessor,
		sseHub,
		clients.Lock,
		repos.Video,
		repos.Question,
		repos.Quiz,
		repos.Attempt,
		repos.Report,
		repos.Notes,
		repos.ProjectVideo,
		float64(cfg.MaxVideoDurationSeconds),
	)

	return Services{
		CreditLedger:       creditLedger,
		VideoIntake:        videoIntake,
		TranscriptAcquirer: transcriptAcquirer,
		BatchProcessor:     batchProcessor,
		FlashcardGenerator: flashcardGenerator,
		QuizPlanner:        quizPlanner,
		NotesGenerator:     notesGenerator,
		ReportGenerator:    reportGenerator,
		AttemptService:     attemptService,
		NotesService:       notesService,
		Orchestrator:       orchestrator,
	}, nil
}
