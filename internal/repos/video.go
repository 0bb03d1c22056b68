package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type VideoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, videos []*types.Video) ([]*types.Video, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) ([]*types.Video, error)
	GetByID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Video, error)
	GetByCanonicalID(ctx context.Context, tx *gorm.DB, canonicalID string) (*types.Video, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, status types.ProcessingStatus, errorMessage string) error
	UpdateBatchProgress(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, current, total int) error
	UpdateTranscript(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, transcript []byte) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	repoLog := baseLog.With("repo", "VideoRepo")
	return &videoRepo{db: db, log: repoLog}
}

func (r *videoRepo) Create(ctx context.Context, tx *gorm.DB, videos []*types.Video) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(videos) == 0 {
		return []*types.Video{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepo) GetByIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Video
	if len(videoIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", videoIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *videoRepo) GetByID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Video
	if err := transaction.WithContext(ctx).
		Where("id = ?", videoID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *videoRepo) GetByCanonicalID(ctx context.Context, tx *gorm.DB, canonicalID string) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Video
	if err := transaction.WithContext(ctx).
		Where("canonical_id = ?", canonicalID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *videoRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, status types.ProcessingStatus, errorMessage string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"processing_status": status,
			"error_message":      errorMessage,
		}).Error
}

func (r *videoRepo) UpdateBatchProgress(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, current, total int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", videoID).
		Updates(map[string]interface{}{
			"batch_current": current,
			"batch_total":    total,
		}).Error
}

func (r *videoRepo) UpdateTranscript(ctx context.Context, tx *gorm.DB, videoID uuid.UUID, transcript []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Video{}).
		Where("id = ?", videoID).
		Update("transcript", transcript).Error
}

func (r *videoRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(videoIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", videoIDs).
		Delete(&types.Video{}).Error
}
