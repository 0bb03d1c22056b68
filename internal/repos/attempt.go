package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/types"
)

type AttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.Attempt) ([]*types.Attempt, error)
	GetByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) ([]*types.Attempt, error)
	GetByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) ([]*types.Attempt, error)
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.Attempt, error)
	CountByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) (int, error)
	FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	repoLog := baseLog.With("repo", "AttemptRepo")
	return &attemptRepo{db: db, log: repoLog}
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.Attempt) ([]*types.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.Attempt{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepo) GetByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) ([]*types.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Attempt
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("attempt_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) GetByUserAndVideo(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID) ([]*types.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Attempt
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Attempt
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) CountByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID, questionID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Attempt{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *attemptRepo) FullDeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []uuid.UUID) error {
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
		Delete(&types.Attempt{}).Error
}
