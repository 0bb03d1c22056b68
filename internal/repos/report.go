package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reports []*types.Report) ([]*types.Report, error)
	GetByID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (*types.Report, error)
	GetLatestByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.Report, error)
	FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func (r *reportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*types.Report) ([]*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(reports) == 0 {
		return []*types.Report{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) GetByID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Report
	if err := transaction.WithContext(ctx).
		Where("id = ?", reportID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepo) GetLatestByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Report
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepo) FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
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
		Delete(&types.Report{}).Error
}
