package types

import (
	"time"

	"github.com/google/uuid"
)

// Project groups videos under a user-chosen label. A video may belong to
// more than one project: membership is a join table, not a scalar foreign
// key on Video, so that re-use across projects never forces reprocessing
// (spec.md §9 Open Questions).
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();column:updated_at" json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
}

func (Project) TableName() string { return "projects" }

// ProjectVideo is the projects<->videos join, recording when a video was
// added to a given project.
type ProjectVideo struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_project_video,unique;column:project_id" json:"project_id"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index:idx_project_video,unique;column:video_id" json:"video_id"`
	AddedAt   time.Time `gorm:"not null;default:now();column:added_at" json:"added_at"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
	Video   *Video   `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"-"`
}

func (ProjectVideo) TableName() string { return "project_videos" }
