package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TreasuryAlbumIncome       = "income"
	TreasuryAlbumDisbursement = "disbursement"
)

type TreasuryAlbum struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string             `gorm:"not null;column:title" json:"title"`
	Kind        string             `gorm:"not null;column:kind" json:"kind"`
	Period      string             `gorm:"column:period" json:"period"`
	Description string             `gorm:"column:description" json:"description"`
	Documents   []TreasuryDocument `gorm:"foreignKey:AlbumID;references:ID" json:"documents,omitempty"`
	CreatedAt   time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (TreasuryAlbum) TableName() string { return "treasury_album" }

type TreasuryDocument struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AlbumID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"album_id"`
	Album      *TreasuryAlbum `gorm:"constraint:OnDelete:CASCADE;foreignKey:AlbumID;references:ID" json:"album,omitempty"`
	Title      string         `gorm:"not null;column:title" json:"title"`
	Amount     float64        `gorm:"not null;default:0;column:amount" json:"amount"`
	FileRefs   datatypes.JSON `gorm:"column:file_refs;type:jsonb" json:"file_refs"`
	RecordedAt time.Time      `gorm:"not null;column:recorded_at" json:"recorded_at"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TreasuryDocument) TableName() string { return "treasury_document" }
