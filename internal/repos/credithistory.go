package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type CreditHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CreditHistory) ([]*types.CreditHistory, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CreditHistory, error)
	// ExistsForVideo reports whether a deduction has already been recorded
	// for this (user, video, credit type), the idempotency anchor that
	// keeps a retried processing run from deducting credits twice.
	ExistsForVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID, creditType types.CreditType, operation types.CreditOperation) (bool, error)
}

type creditHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCreditHistoryRepo(db *gorm.DB, baseLog *logger.Logger) CreditHistoryRepo {
	repoLog := baseLog.With("repo", "CreditHistoryRepo")
	return &creditHistoryRepo{db: db, log: repoLog}
}

func (r *creditHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CreditHistory) ([]*types.CreditHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.CreditHistory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *creditHistoryRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CreditHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CreditHistory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *creditHistoryRepo) ExistsForVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID, creditType types.CreditType, operation types.CreditOperation) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CreditHistory{}).
		Where("user_id = ? AND video_id = ? AND credit_type = ? AND operation = ?", userID, videoID, creditType, operation).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
