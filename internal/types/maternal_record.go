package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaternalRecordPrenatal   = "Prenatal"
	MaternalRecordPostpartum = "Postpartum"
)

type MaternalRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PregnancyID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"pregnancy_id"`
	Pregnancy       *Pregnancy     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PregnancyID;references:ID" json:"pregnancy,omitempty"`
	RecordType      string         `gorm:"not null;column:record_type" json:"record_type"`
	CheckupDate     time.Time      `gorm:"not null;column:checkup_date" json:"checkup_date"`
	ExpectedDueDate *time.Time     `gorm:"column:expected_due_date" json:"expected_due_date,omitempty"`
	DeliveryDate    *time.Time     `gorm:"column:delivery_date" json:"delivery_date,omitempty"`
	VitalSigns      datatypes.JSON `gorm:"column:vital_signs;type:jsonb" json:"vital_signs"`
	Notes           string         `gorm:"column:notes" json:"notes"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MaternalRecord) TableName() string { return "maternal_record" }
