package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resident is the registry row the health, medicine, and summon modules
// reference.
type Resident struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName   string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string         `gorm:"not null;column:last_name" json:"last_name"`
	MiddleName  string         `gorm:"column:middle_name" json:"middle_name"`
	BirthDate   *time.Time     `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Sex         string         `gorm:"column:sex" json:"sex"`
	Address     string         `gorm:"column:address" json:"address"`
	ContactNo   string         `gorm:"column:contact_no" json:"contact_no"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Resident) TableName() string { return "resident" }
