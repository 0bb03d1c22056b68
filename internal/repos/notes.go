package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type NotesRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notes []*types.Notes) ([]*types.Notes, error)
	GetByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Notes, error)
	Replace(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, title, summary string, sections []byte) error
	FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error
}

type notesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotesRepo(db *gorm.DB, baseLog *logger.Logger) NotesRepo {
	repoLog := baseLog.With("repo", "NotesRepo")
	return &notesRepo{db: db, log: repoLog}
}

func (r *notesRepo) Create(ctx context.Context, tx *gorm.DB, notes []*types.Notes) ([]*types.Notes, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(notes) == 0 {
		return []*types.Notes{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *notesRepo) GetByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Notes, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Notes
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Replace overwrites title, summary and sections on a video's existing
// Notes row (spec.md §3: Notes is mutable only via this operation).
func (r *notesRepo) Replace(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, title, summary string, sections []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Notes{}).
		Where("video_id = ?", videoID).
		Updates(map[string]interface{}{
			"title":    title,
			"summary":  summary,
			"sections": sections,
		}).Error
}

func (r *notesRepo) FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(videoIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Unscoped().
		Where("video_id IN ?", videoIDs).
		Delete(&types.Notes{}).Error
}
