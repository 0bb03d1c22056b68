package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/videolearn/backend/internal/clients/redis"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/sse"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

// ProcessVideoRequest is the public entrypoint's input (spec.md §4.8).
type ProcessVideoRequest struct {
	URL       string
	Title     string
	ProjectID *uuid.UUID
	UserID    *uuid.UUID
}

// VideoSummary is the synchronous response to a process-video submission.
// For a brand new video it carries only the id and starting status; for a
// resubmission of an already-processed video it carries the full prior
// state (transcript and question set included, not just the id), grounded
// on original_source/backend/routes/video.py's process_video_async
// existing-video branch.
type VideoSummary struct {
	VideoID          uuid.UUID              `json:"video_id"`
	ProcessingStatus types.ProcessingStatus `json:"processing_status"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	QuestionCount    int                    `json:"question_count"`
	AlreadyProcessed bool                   `json:"already_processed,omitempty"`
	Transcript       datatypes.JSON         `json:"transcript,omitempty"`
	Questions        []*types.Question      `json:"questions,omitempty"`
}

// VideoStatus is the status-polling response shape (spec.md §4.8).
type VideoStatus struct {
	VideoID          uuid.UUID              `json:"video_id"`
	ProcessingStatus types.ProcessingStatus `json:"processing_status"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	HasTranscript    bool                   `json:"has_transcript"`
	QuestionCount    int                    `json:"question_count"`
	BatchCurrent     int                    `json:"batch_current"`
	BatchTotal       int                    `json:"batch_total"`
}

type backgroundJob struct {
	videoID   uuid.UUID
	url       string
	userID    *uuid.UUID
	projectID *uuid.UUID
}

// Orchestrator is the pipeline's public entrypoint: intake, credit gate,
// persistence, job enqueue, status polling, and cascading deletion
// (spec.md §4.8).
type Orchestrator interface {
	ProcessVideoAsync(ctx context.Context, req ProcessVideoRequest) (*VideoSummary, error)
	Status(ctx context.Context, videoID uuid.UUID) (*VideoStatus, error)
	Delete(ctx context.Context, videoID uuid.UUID, projectID *uuid.UUID) error
	StartWorker(ctx context.Context)
}

type orchestrator struct {
	log       *logger.Logger
	intake    VideoIntake
	ledger    CreditLedger
	batch     BatchProcessor
	sseHub    *sse.SSEHub
	lock      redis.VideoLock
	videos    repos.VideoRepo
	questions repos.QuestionRepo
	quizzes   repos.QuizRepo
	attempts  repos.AttemptRepo
	reports   repos.ReportRepo
	notes     repos.NotesRepo
	projVid   repos.ProjectVideoRepo

	maxVideoDurationSeconds float64
	jobs                    chan backgroundJob
}

func NewOrchestrator(
	log *logger.Logger,
	intake VideoIntake,
	ledger CreditLedger,
	batch BatchProcessor,
	sseHub *sse.SSEHub,
	lock redis.VideoLock,
	videos repos.VideoRepo,
	questions repos.QuestionRepo,
	quizzes repos.QuizRepo,
	attempts repos.AttemptRepo,
	reports repos.ReportRepo,
	notes repos.NotesRepo,
	projVid repos.ProjectVideoRepo,
	maxVideoDurationSeconds float64,
) Orchestrator {
	return &orchestrator{
		log:                     log.With("service", "Orchestrator"),
		intake:                  intake,
		ledger:                  ledger,
		batch:                   batch,
		sseHub:                  sseHub,
		lock:                    lock,
		videos:                  videos,
		questions:               questions,
		quizzes:                 quizzes,
		attempts:                attempts,
		reports:                 reports,
		notes:                   notes,
		projVid:                 projVid,
		maxVideoDurationSeconds: maxVideoDurationSeconds,
		jobs:                    make(chan backgroundJob, 64),
	}
}

func (o *orchestrator) ProcessVideoAsync(ctx context.Context, req ProcessVideoRequest) (*VideoSummary, error) {
	result, err := o.intake.Validate(ctx, req.URL, o.maxVideoDurationSeconds)
	if err != nil {
		return nil, err
	}

	existing, err := o.videos.GetByCanonicalID(ctx, nil, result.CanonicalID)
	if err == nil && existing != nil {
		if req.ProjectID != nil {
			if err := o.linkProject(ctx, *req.ProjectID, existing.ID); err != nil {
				return nil, err
			}
		}
		questions, err := o.questions.GetByVideoID(ctx, nil, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("load existing questions: %w", err)
		}
		return &VideoSummary{
			VideoID:          existing.ID,
			ProcessingStatus: existing.ProcessingStatus,
			ErrorMessage:     existing.ErrorMessage,
			QuestionCount:    len(questions),
			AlreadyProcessed: true,
			Transcript:       existing.Transcript,
			Questions:        questions,
		}, nil
	}

	if req.UserID != nil {
		user, err := o.ledger.GetUser(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		required := o.ledger.TranscriptionCost(result.Metadata.Duration)
		if ok, available := o.ledger.HasCredits(ctx, user, types.CreditTypeTranscription, required); !ok {
			return nil, svcerr.NewInsufficientCredits(required, available)
		}
	}

	video := &types.Video{
		CanonicalID:      result.CanonicalID,
		Title:            req.Title,
		URL:              req.URL,
		Duration:         result.Metadata.Duration,
		Language:         result.Metadata.Language,
		Thumbnail:        result.Metadata.Thumbnail,
		Description:      result.Metadata.Description,
		ProcessingStatus: types.StatusProcessing,
	}
	created, err := o.videos.Create(ctx, nil, []*types.Video{video})
	if err != nil {
		return nil, fmt.Errorf("persist video record: %w", err)
	}
	video = created[0]

	if req.ProjectID != nil {
		if err := o.linkProject(ctx, *req.ProjectID, video.ID); err != nil {
			return nil, err
		}
	}

	job := backgroundJob{videoID: video.ID, url: req.URL, userID: req.UserID, projectID: req.ProjectID}
	select {
	case o.jobs <- job:
	default:
		o.log.Warn("background job queue full, running job in its own goroutine", "video_id", video.ID)
		go o.runJob(context.Background(), job)
	}

	return &VideoSummary{VideoID: video.ID, ProcessingStatus: video.ProcessingStatus}, nil
}

func (o *orchestrator) linkProject(ctx context.Context, projectID, videoID uuid.UUID) error {
	exists, err := o.projVid.Exists(ctx, nil, projectID, videoID)
	if err != nil {
		return fmt.Errorf("check project link: %w", err)
	}
	if exists {
		return nil
	}
	_, err = o.projVid.Create(ctx, nil, []*types.ProjectVideo{{ProjectID: projectID, VideoID: videoID}})
	if err != nil {
		return fmt.Errorf("link project: %w", err)
	}
	return nil
}

// StartWorker launches the background consumer loop; it runs until ctx is
// canceled (grounded on the teacher's ticker-driven worker shape, adapted
// to a channel-fed job queue for this domain).
func (o *orchestrator) StartWorker(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-o.jobs:
				o.runJob(ctx, job)
			}
		}
	}()
}

func (o *orchestrator) runJob(ctx context.Context, job backgroundJob) {
	videoIDStr := job.videoID.String()

	if o.lock != nil {
		acquired, release, err := o.lock.Acquire(ctx, videoIDStr)
		defer release()
		if err != nil {
			o.log.Warn("video lock unavailable, proceeding without mutual exclusion", "video_id", videoIDStr, "error", err)
		} else if !acquired {
			o.log.Info("video already being processed, skipping duplicate job", "video_id", videoIDStr)
			return
		}
	}

	video, err := o.videos.GetByID(ctx, nil, job.videoID)
	if err != nil {
		o.log.Error("failed to reload video for background job", "video_id", videoIDStr, "error", err)
		return
	}

	if err := o.batch.Process(ctx, video); err != nil {
		o.fail(ctx, job.videoID, err)
		return
	}

	if job.userID != nil {
		alreadyDeducted, err := o.ledger.AlreadyDeducted(ctx, nil, *job.userID, job.videoID, types.CreditTypeTranscription)
		if err != nil {
			o.log.Error("failed to check deduction idempotency", "video_id", videoIDStr, "error", err)
		} else if !alreadyDeducted {
			user, err := o.ledger.GetUser(ctx, *job.userID)
			if err != nil {
				o.log.Error("failed to load user for credit deduction", "video_id", videoIDStr, "error", err)
			} else {
				cost := o.ledger.TranscriptionCost(video.Duration)
				if cost > 0 {
					if err := o.ledger.Deduct(ctx, nil, user, types.CreditTypeTranscription, cost, &job.videoID, job.projectID, "video transcription"); err != nil {
						o.log.Error("failed to deduct transcription credits", "video_id", videoIDStr, "error", err)
					}
				}
			}
		}
	}

	o.broadcast(job.videoID, sse.SSEEventVideoStatusChanged, map[string]string{"status": string(types.StatusCompleted)})
}

func (o *orchestrator) fail(ctx context.Context, videoID uuid.UUID, cause error) {
	if err := o.videos.UpdateStatus(ctx, nil, videoID, types.StatusFailed, cause.Error()); err != nil {
		o.log.Error("failed to record video processing failure", "video_id", videoID, "error", err)
	}
	o.broadcast(videoID, sse.SSEEventVideoProcessingFailed, map[string]string{"error": cause.Error()})
}

func (o *orchestrator) broadcast(videoID uuid.UUID, event sse.SSEEvent, data any) {
	if o.sseHub == nil {
		return
	}
	o.sseHub.Broadcast(sse.SSEMessage{Channel: videoID.String(), Event: event, Data: data})
}

func (o *orchestrator) Status(ctx context.Context, videoID uuid.UUID) (*VideoStatus, error) {
	video, err := o.videos.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, svcerr.NotFound(fmt.Errorf("video %s: %w", videoID, err))
	}
	questions, err := o.questions.GetByVideoID(ctx, nil, videoID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	hasTranscript := len(video.Transcript) > 0

	return &VideoStatus{
		VideoID:          video.ID,
		ProcessingStatus: video.ProcessingStatus,
		ErrorMessage:     video.ErrorMessage,
		HasTranscript:    hasTranscript,
		QuestionCount:    len(questions),
		BatchCurrent:     video.BatchCurrent,
		BatchTotal:       video.BatchTotal,
	}, nil
}

// Delete implements the dependency-ordered cascade (spec.md §4.8). With a
// project id supplied, only the link is dropped unless it was the last one
// referencing the video, in which case the full cascade still runs. The
// cascade does not remove quiz_questions rows or project_videos links; the
// schema is migrated without foreign-key constraints, so the database does
// not remove them either.
func (o *orchestrator) Delete(ctx context.Context, videoID uuid.UUID, projectID *uuid.UUID) error {
	if projectID != nil {
		if err := o.projVid.DeleteByProjectAndVideo(ctx, nil, *projectID, videoID); err != nil {
			return fmt.Errorf("delete project link: %w", err)
		}
		remaining, err := o.projVid.GetByVideoID(ctx, nil, videoID)
		if err != nil {
			return fmt.Errorf("load video links: %w", err)
		}
		if len(remaining) > 0 {
			// other projects still reference this video; the full cascade
			// below must not run.
			return nil
		}
	}

	videoIDs := []uuid.UUID{videoID}
	if err := o.attempts.FullDeleteByVideoIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	if err := o.reports.FullDeleteByVideoIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete reports: %w", err)
	}
	if err := o.notes.FullDeleteByVideoIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	if err := o.quizzes.FullDeleteByVideoIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete quizzes: %w", err)
	}
	if err := o.questions.FullDeleteByVideoIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if err := o.videos.FullDeleteByIDs(ctx, nil, videoIDs); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}
