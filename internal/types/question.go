package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionOptions is the fixed 4-entry option list, stored as JSON since
// gorm has no native fixed-length array column for Postgres text[] portably.
type QuestionOptions []string

// Question is created by LLM synthesis and immutable thereafter. It carries
// a bound segment for provenance/review anchoring (spec.md §3).
type Question struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID           uuid.UUID       `gorm:"type:uuid;not null;index;column:video_id" json:"video_id"`
	QuestionText      string          `gorm:"not null;column:question_text" json:"question_text"`
	Options           datatypes.JSON  `gorm:"not null;column:options" json:"options"`
	CorrectAnswer     int             `gorm:"not null;column:correct_answer" json:"correct_answer"`
	Explanation       string          `gorm:"column:explanation" json:"explanation,omitempty"`
	Difficulty        Difficulty      `gorm:"not null;default:medium;column:difficulty" json:"difficulty"`
	SegmentStartTime  float64         `gorm:"column:segment_start_time" json:"segment_start_time"`
	SegmentEndTime    float64         `gorm:"column:segment_end_time" json:"segment_end_time"`
	SegmentText       string          `gorm:"column:segment_text" json:"segment_text"`
	ShowAtTimestamp   *float64        `gorm:"column:show_at_timestamp" json:"show_at_timestamp,omitempty"`
	CreatedAt         time.Time       `gorm:"not null;default:now();column:created_at" json:"created_at"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (Question) TableName() string { return "questions" }

// Quiz is an ordered list of Questions, created on demand and immutable
// thereafter (spec.md §3).
type Quiz struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index;column:video_id" json:"video_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (Quiz) TableName() string { return "quizzes" }

// QuizQuestion is the quizzes<->questions join, recording the question's
// position within that specific quiz.
type QuizQuestion struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID     uuid.UUID `gorm:"type:uuid;not null;index;column:quiz_id" json:"quiz_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index;column:question_id" json:"question_id"`
	Position   int       `gorm:"not null;column:position" json:"position"`

	Quiz     *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	Question *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }
