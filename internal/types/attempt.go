package types

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType tags the origin of the attempt, not the question itself
// (spec.md §9 Design Notes: polymorphic question origin lives on Attempt).
type QuestionType string

const (
	QuestionTypeFlashcard QuestionType = "flashcard"
	QuestionTypeQuiz      QuestionType = "quiz"
)

// Attempt is append-only. attempt_number = 1 + count of prior attempts by
// the same (user_id, question_id) (spec.md §3, §8).
type Attempt struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;index:idx_attempt_user_question;column:user_id" json:"user_id"`
	VideoID        uuid.UUID    `gorm:"type:uuid;not null;index;column:video_id" json:"video_id"`
	QuestionID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_attempt_user_question;column:question_id" json:"question_id"`
	QuizID         *uuid.UUID   `gorm:"type:uuid;index;column:quiz_id" json:"quiz_id,omitempty"`
	QuestionType   QuestionType `gorm:"not null;column:question_type" json:"question_type"`
	SelectedAnswer int          `gorm:"not null;column:selected_answer" json:"selected_answer"`
	CorrectAnswer  int          `gorm:"not null;column:correct_answer" json:"correct_answer"`
	IsCorrect      bool         `gorm:"not null;column:is_correct" json:"is_correct"`
	AttemptNumber  int          `gorm:"not null;column:attempt_number" json:"attempt_number"`
	CreatedAt      time.Time    `gorm:"not null;default:now();column:created_at" json:"created_at"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (Attempt) TableName() string { return "user_attempts" }
