package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

// NotesService gates NotesGenerator behind the video-completed precondition
// and the notes credit cost (spec.md §4.9, §6).
type NotesService interface {
	GenerateForVideo(ctx context.Context, videoID uuid.UUID, userID *uuid.UUID) (*types.Notes, error)
}

type notesService struct {
	log       *logger.Logger
	generator NotesGenerator
	ledger    CreditLedger
	videos    repos.VideoRepo
}

func NewNotesService(log *logger.Logger, generator NotesGenerator, ledger CreditLedger, videos repos.VideoRepo) NotesService {
	return &notesService{
		log:       log.With("service", "NotesService"),
		generator: generator,
		ledger:    ledger,
		videos:    videos,
	}
}

func (s *notesService) GenerateForVideo(ctx context.Context, videoID uuid.UUID, userID *uuid.UUID) (*types.Notes, error) {
	video, err := s.videos.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, svcerr.NotFound(fmt.Errorf("video %s: %w", videoID, err))
	}
	if video.ProcessingStatus != types.StatusCompleted {
		return nil, svcerr.InvalidArgument(fmt.Errorf("video %s is not completed", videoID))
	}

	var transcript types.Transcript
	if len(video.Transcript) > 0 {
		if err := json.Unmarshal(video.Transcript, &transcript); err != nil {
			return nil, fmt.Errorf("parse transcript: %w", err)
		}
	}

	var user *types.User
	cost := s.ledger.NotesCost(len(transcript.FullText))
	if userID != nil {
		u, err := s.ledger.GetUser(ctx, *userID)
		if err != nil {
			return nil, err
		}
		user = u
		if ok, available := s.ledger.HasCredits(ctx, user, types.CreditTypeNotes, cost); !ok {
			return nil, svcerr.NewInsufficientCredits(cost, available)
		}
	}

	notes, err := s.generator.Generate(ctx, video, transcript.FullText)
	if err != nil {
		return nil, err
	}

	if user != nil && cost > 0 {
		if err := s.ledger.Deduct(ctx, nil, user, types.CreditTypeNotes, cost, &videoID, nil, "notes generation"); err != nil {
			s.log.Error("failed to deduct notes generation credits", "video_id", videoID, "error", err)
		}
	}

	return notes, nil
}
