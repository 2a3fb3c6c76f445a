package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PregnancyStatusActive    = "active"
	PregnancyStatusCompleted = "completed"
	PregnancyStatusLoss      = "loss"
)

// Pregnancy is the backend-authoritative grouping row for maternal
// records. The status column drives the lifecycle; prenatal and
// postpartum records attach via PregnancyID.
type Pregnancy struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResidentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"resident_id"`
	Resident     *Resident      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResidentID;references:ID" json:"resident,omitempty"`
	Status       string         `gorm:"not null;default:'active';column:status" json:"status"`
	RegisteredAt time.Time      `gorm:"not null;column:registered_at" json:"registered_at"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Pregnancy) TableName() string { return "pregnancy" }
