package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProcessingStatus is the wire-contract vocabulary for video lifecycle
// state (spec.md §3, §6).
type ProcessingStatus string

const (
	StatusProcessing                 ProcessingStatus = "processing"
	StatusTranscribing                ProcessingStatus = "transcribing"
	StatusTranscribingBatch           ProcessingStatus = "transcribing_batch"
	StatusGeneratingFlashcards        ProcessingStatus = "generating_flashcards"
	StatusGeneratingFlashcardsBatch   ProcessingStatus = "generating_flashcards_batch"
	StatusCompleted                   ProcessingStatus = "completed"
	StatusFailed                      ProcessingStatus = "failed"
)

// TranscriptSegment is a contiguous (start_time, end_time, text) slice of a
// transcript, approximately flashcard_interval seconds long.
type TranscriptSegment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
}

// Transcript is the video's full time-aligned transcript: an ordered
// segment list, the concatenated full text, and total duration.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
	FullText string              `json:"full_text"`
	Duration float64             `json:"duration"`
}

// Video is identified by its canonical source id (spec.md §3). Transcript
// is nullable JSON, set once when processing completes (batch mode too).
type Video struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CanonicalID     string           `gorm:"uniqueIndex;not null;column:canonical_id" json:"canonical_id"`
	Title           string           `gorm:"not null;column:title" json:"title"`
	URL             string           `gorm:"not null;column:url" json:"url"`
	Duration        float64          `gorm:"not null;column:duration" json:"duration"`
	Language        string           `gorm:"column:language" json:"language,omitempty"`
	Thumbnail       string           `gorm:"column:thumbnail" json:"thumbnail,omitempty"`
	Description     string           `gorm:"column:description" json:"description,omitempty"`
	Transcript      datatypes.JSON   `gorm:"column:transcript" json:"transcript,omitempty"`
	ProcessingStatus ProcessingStatus `gorm:"not null;default:processing;column:processing_status" json:"processing_status"`
	ErrorMessage    string           `gorm:"column:error_message" json:"error_message,omitempty"`
	BatchCurrent    int              `gorm:"not null;default:0;column:batch_current" json:"batch_current"`
	BatchTotal      int              `gorm:"not null;default:0;column:batch_total" json:"batch_total"`
	CreatedAt       time.Time        `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:now();column:updated_at" json:"updated_at"`
}

func (Video) TableName() string { return "videos" }
