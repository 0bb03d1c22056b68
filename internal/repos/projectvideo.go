package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type ProjectVideoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.ProjectVideo) ([]*types.ProjectVideo, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ProjectVideo, error)
	GetByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) ([]*types.ProjectVideo, error)
	Exists(ctx context.Context, tx *gorm.DB, projectID, videoID uuid.UUID) (bool, error)
	DeleteByProjectAndVideo(ctx context.Context, tx *gorm.DB, projectID, videoID uuid.UUID) error
}

type projectVideoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectVideoRepo(db *gorm.DB, baseLog *logger.Logger) ProjectVideoRepo {
	repoLog := baseLog.With("repo", "ProjectVideoRepo")
	return &projectVideoRepo{db: db, log: repoLog}
}

func (r *projectVideoRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.ProjectVideo) ([]*types.ProjectVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.ProjectVideo{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *projectVideoRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ProjectVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectVideo
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectVideoRepo) GetByVideoID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) ([]*types.ProjectVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectVideo
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", videoID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectVideoRepo) DeleteByProjectAndVideo(ctx context.Context, tx *gorm.DB, projectID, videoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("project_id = ? AND video_id = ?", projectID, videoID).
		Delete(&types.ProjectVideo{}).Error
}

func (r *projectVideoRepo) Exists(ctx context.Context, tx *gorm.DB, projectID, videoID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProjectVideo{}).
		Where("project_id = ? AND video_id = ?", projectID, videoID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
