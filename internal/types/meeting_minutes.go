package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MeetingMinutes struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	SessionDate time.Time      `gorm:"not null;index;column:session_date" json:"session_date"`
	Agenda      string         `gorm:"column:agenda" json:"agenda"`
	Body        string         `gorm:"column:body" json:"body"`
	Attendees   datatypes.JSON `gorm:"column:attendees;type:jsonb" json:"attendees"`
	FileRefs    datatypes.JSON `gorm:"column:file_refs;type:jsonb" json:"file_refs"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MeetingMinutes) TableName() string { return "meeting_minutes" }
