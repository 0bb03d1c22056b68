package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is a frozen snapshot computed at generation time; immutable
// thereafter (spec.md §3, §4.7).
type Report struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	VideoID           uuid.UUID      `gorm:"type:uuid;not null;index;column:video_id" json:"video_id"`
	QuizID            *uuid.UUID     `gorm:"type:uuid;column:quiz_id" json:"quiz_id,omitempty"`
	WordFrequency     datatypes.JSON `gorm:"column:word_frequency" json:"word_frequency,omitempty"`
	PerformanceStats  datatypes.JSON `gorm:"column:performance_stats" json:"performance_stats,omitempty"`
	AttemptBreakdown  datatypes.JSON `gorm:"column:attempt_breakdown" json:"attempt_breakdown,omitempty"`
	WeakAreas         datatypes.JSON `gorm:"column:weak_areas" json:"weak_areas,omitempty"`
	MasteryAnalysis   datatypes.JSON `gorm:"column:mastery_analysis" json:"mastery_analysis,omitempty"`
	LearningPath      datatypes.JSON `gorm:"column:learning_path" json:"learning_path,omitempty"`
	VideoRecommendations datatypes.JSON `gorm:"column:video_recommendations" json:"video_recommendations,omitempty"`
	KeyTakeaways      datatypes.JSON `gorm:"column:key_takeaways" json:"key_takeaways,omitempty"`
	VideoType         string         `gorm:"column:video_type" json:"video_type,omitempty"`
	Domain            string         `gorm:"column:domain" json:"domain,omitempty"`
	MainTopics        datatypes.JSON `gorm:"column:main_topics" json:"main_topics,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now();column:created_at" json:"created_at"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (Report) TableName() string { return "learning_reports" }

// DiagramType is the target diagram DSL subtype (Mermaid-family, enriched
// beyond the original's single "mermaid" framing; see SPEC_FULL.md).
type DiagramType string

const (
	DiagramFlow     DiagramType = "flow"
	DiagramPie      DiagramType = "pie"
	DiagramState    DiagramType = "state"
	DiagramSequence DiagramType = "sequence"
	DiagramClass    DiagramType = "class"
	DiagramGantt    DiagramType = "gantt"
	DiagramMindmap  DiagramType = "mindmap"
	DiagramGit      DiagramType = "git"
)

// Diagram carries DSL source code alongside a human purpose string, stored
// inline in a Notes section's JSON.
type Diagram struct {
	Type    DiagramType `json:"type"`
	Code    string      `json:"code"`
	Title   string      `json:"title"`
	Purpose string      `json:"purpose"`
}

// NotesSection is one section of a study document.
type NotesSection struct {
	Heading      string    `json:"heading"`
	Content      string    `json:"content"`
	KeyConcepts  []string  `json:"key_concepts"`
	Diagrams     []Diagram `json:"diagrams"`
}

// Notes is mutable only via an explicit replace-title-and-sections
// operation (spec.md §3, §4.6).
type Notes struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:video_id" json:"video_id"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Summary   string         `gorm:"column:summary" json:"summary,omitempty"`
	Sections  datatypes.JSON `gorm:"column:sections" json:"sections"`
	CreatedAt time.Time      `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now();column:updated_at" json:"updated_at"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (Notes) TableName() string { return "video_notes" }
