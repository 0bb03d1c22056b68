package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/svcerr"
	"github.com/videolearn/backend/internal/types"
)

// Fixed costing rules (spec.md §4.9).
const (
	TranscriptionSecondsPerCredit = 60
	NotesCharsPerCredit           = 50000
	QuizGenerationCreditCost      = 5
)

// CreditLedger reads and mutates a user's metered balances. Deduct and Add
// both write the balance and append an audit row through the caller's tx;
// the two writes commit or roll back together only when tx is non-nil.
// With a nil tx they are two separate statements.
type CreditLedger interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	// HasCredits reports whether the user can afford amount of kind.
	// Developer role always returns true.
	HasCredits(ctx context.Context, user *types.User, kind types.CreditType, amount int) (bool, int)
	// Deduct requires amount > 0 (spec.md §9 Open Question resolution).
	// videoID/projectID are optional provenance on the history row.
	Deduct(ctx context.Context, tx *gorm.DB, user *types.User, kind types.CreditType, amount int, videoID, projectID *uuid.UUID, description string) error
	Add(ctx context.Context, tx *gorm.DB, user *types.User, kind types.CreditType, amount int, description string) error
	// AlreadyDeducted checks the idempotency anchor: a deduction row already
	// recorded for this (user, video, kind) means processing must not pay twice.
	AlreadyDeducted(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID, kind types.CreditType) (bool, error)
	// TranscriptionCost/NotesCost/QuizCost apply the fixed costing rules.
	TranscriptionCost(durationSeconds float64) int
	NotesCost(transcriptFullTextLen int) int
	QuizCost() int
}

type creditLedger struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	creditHistory repos.CreditHistoryRepo
}

func NewCreditLedger(log *logger.Logger, userRepo repos.UserRepo, creditHistory repos.CreditHistoryRepo) CreditLedger {
	return &creditLedger{
		log:           log.With("service", "CreditLedger"),
		userRepo:      userRepo,
		creditHistory: creditHistory,
	}
}

func (l *creditLedger) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := l.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, svcerr.NotFound(fmt.Errorf("user %s: %w", userID, err))
	}
	return user, nil
}

func (l *creditLedger) HasCredits(ctx context.Context, user *types.User, kind types.CreditType, amount int) (bool, int) {
	if user.HasUnlimitedCredits() {
		return true, int(^uint(0) >> 1)
	}
	balance := l.balanceFor(user, kind)
	return balance >= amount, balance
}

func (l *creditLedger) balanceFor(user *types.User, kind types.CreditType) int {
	if kind == types.CreditTypeTranscription {
		return user.TranscriptionCredits
	}
	return user.NotesCredits
}

func (l *creditLedger) columnFor(kind types.CreditType) string {
	if kind == types.CreditTypeTranscription {
		return "transcription_credits"
	}
	return "notes_credits"
}

func (l *creditLedger) Deduct(ctx context.Context, tx *gorm.DB, user *types.User, kind types.CreditType, amount int, videoID, projectID *uuid.UUID, description string) error {
	if amount <= 0 {
		return svcerr.InvalidArgument(fmt.Errorf("deduct amount must be > 0, got %d", amount))
	}
	if user.HasUnlimitedCredits() {
		l.log.Debug("developer role, skipping deduction", "user_id", user.ID)
		return nil
	}

	fresh, err := l.userRepo.GetByID(ctx, tx, user.ID)
	if err != nil {
		return fmt.Errorf("re-read balance: %w", err)
	}
	before := l.balanceFor(fresh, kind)
	if before < amount {
		return svcerr.NewInsufficientCredits(amount, before)
	}
	after := before - amount

	if err := l.userRepo.UpdateCredits(ctx, tx, user.ID, l.columnFor(kind), after); err != nil {
		return fmt.Errorf("write new balance: %w", err)
	}

	row := &types.CreditHistory{
		UserID:        user.ID,
		VideoID:       videoID,
		ProjectID:     projectID,
		CreditType:    kind,
		Operation:     types.CreditOperationDeduct,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
	}
	if _, err := l.creditHistory.Create(ctx, tx, []*types.CreditHistory{row}); err != nil {
		return fmt.Errorf("append credit history: %w", err)
	}
	return nil
}

func (l *creditLedger) Add(ctx context.Context, tx *gorm.DB, user *types.User, kind types.CreditType, amount int, description string) error {
	if amount <= 0 {
		return svcerr.InvalidArgument(fmt.Errorf("add amount must be > 0, got %d", amount))
	}

	fresh, err := l.userRepo.GetByID(ctx, tx, user.ID)
	if err != nil {
		return fmt.Errorf("re-read balance: %w", err)
	}
	before := l.balanceFor(fresh, kind)
	after := before + amount

	if err := l.userRepo.UpdateCredits(ctx, tx, user.ID, l.columnFor(kind), after); err != nil {
		return fmt.Errorf("write new balance: %w", err)
	}

	row := &types.CreditHistory{
		UserID:        user.ID,
		CreditType:    kind,
		Operation:     types.CreditOperationAdd,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
	}
	if _, err := l.creditHistory.Create(ctx, tx, []*types.CreditHistory{row}); err != nil {
		return fmt.Errorf("append credit history: %w", err)
	}
	return nil
}

func (l *creditLedger) AlreadyDeducted(ctx context.Context, tx *gorm.DB, userID, videoID uuid.UUID, kind types.CreditType) (bool, error) {
	return l.creditHistory.ExistsForVideo(ctx, tx, userID, videoID, kind, types.CreditOperationDeduct)
}

func (l *creditLedger) TranscriptionCost(durationSeconds float64) int {
	return ceilDiv(int(durationSeconds), TranscriptionSecondsPerCredit)
}

func (l *creditLedger) NotesCost(transcriptFullTextLen int) int {
	return ceilDiv(transcriptFullTextLen, NotesCharsPerCredit)
}

func (l *creditLedger) QuizCost() int {
	return QuizGenerationCreditCost
}

func ceilDiv(numerator, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	if numerator <= 0 {
		return 0
	}
	return (numerator + denominator - 1) / denominator
}
