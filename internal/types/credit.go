package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CreditType names the metered resource a CreditHistory row moves.
type CreditType string

const (
	CreditTypeTranscription CreditType = "transcription"
	CreditTypeNotes         CreditType = "notes"
)

// CreditOperation is the direction of a CreditHistory row.
type CreditOperation string

const (
	CreditOperationAdd    CreditOperation = "add"
	CreditOperationDeduct CreditOperation = "deduct"
)

// CreditHistory is append-only and is the idempotency anchor for credit
// deduction (spec.md §3, §4.9, §9): a row's existence for a given
// (user_id, video_id, credit_type, operation) tuple means the deduction
// already happened and must not happen again.
type CreditHistory struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	VideoID        *uuid.UUID      `gorm:"type:uuid;index;column:video_id" json:"video_id,omitempty"`
	ProjectID      *uuid.UUID      `gorm:"type:uuid;index;column:project_id" json:"project_id,omitempty"`
	CreditType     CreditType      `gorm:"not null;column:credit_type" json:"credit_type"`
	Operation      CreditOperation `gorm:"not null;column:operation" json:"operation"`
	Amount         int             `gorm:"not null;column:amount" json:"amount"`
	BalanceBefore  int             `gorm:"not null;column:balance_before" json:"balance_before"`
	BalanceAfter   int             `gorm:"not null;column:balance_after" json:"balance_after"`
	Description    string          `gorm:"column:description" json:"description,omitempty"`
	Metadata       datatypes.JSON  `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:now();column:created_at" json:"created_at"`

	User  *User  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Video *Video `gorm:"constraint:OnDelete:SET NULL;foreignKey:VideoID;references:ID" json:"-"`
}

func (CreditHistory) TableName() string { return "credit_history" }
