package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrdinanceStatusActive   = "active"
	OrdinanceStatusRepealed = "repealed"
)

// Ordinance is a council record. ParentID links an amendment or repeal
// to the ordinance it modifies; the folder projection in
// internal/grouping assembles the display hierarchy from these links.
type Ordinance struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Number      string         `gorm:"uniqueIndex;not null;column:number" json:"number"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Details     string         `gorm:"column:details" json:"details"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	Parent      *Ordinance     `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	IsAmendment bool           `gorm:"not null;default:false;column:is_amendment" json:"is_amendment"`
	IsRepeal    bool           `gorm:"not null;default:false;column:is_repeal" json:"is_repeal"`
	Status      string         `gorm:"not null;default:'active';column:status" json:"status"`
	EnactedAt   *time.Time     `gorm:"column:enacted_at" json:"enacted_at,omitempty"`
	FileRefs    datatypes.JSON `gorm:"column:file_refs;type:jsonb" json:"file_refs"`
	AuthorID    *uuid.UUID     `gorm:"type:uuid;column:author_id" json:"author_id,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Ordinance) TableName() string { return "ordinance" }
