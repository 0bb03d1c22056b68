package types

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a user; developer bypasses credit checks and deductions
// entirely (spec.md §3, §4.9, §9).
type Role string

const (
	RoleStandard  Role = "standard"
	RoleDeveloper Role = "developer"
)

// User carries both metered credit balances alongside identity. Login and
// registration flows are an external collaborator per spec.md §1 — this
// type only models the fields the credit ledger and attempt log need.
type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email                string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName            string    `gorm:"column:first_name" json:"first_name"`
	LastName             string    `gorm:"column:last_name" json:"last_name"`
	Role                 Role      `gorm:"not null;default:standard;column:role" json:"role"`
	TranscriptionCredits int       `gorm:"not null;default:0;column:transcription_credits" json:"transcription_credits"`
	NotesCredits         int       `gorm:"not null;default:0;column:notes_credits" json:"notes_credits"`
	CreatedAt            time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null;default:now();column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// HasUnlimitedCredits reports whether role bypasses metering entirely.
func (u *User) HasUnlimitedCredits() bool {
	return u != nil && u.Role == RoleDeveloper
}
