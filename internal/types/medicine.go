package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MedicineRequestPending  = "pending"
	MedicineRequestApproved = "approved"
	MedicineRequestReleased = "released"
	MedicineRequestRejected = "rejected"
)

type MedicineItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Categories    datatypes.JSON `gorm:"column:categories;type:jsonb" json:"categories"`
	Unit          string         `gorm:"column:unit" json:"unit"`
	StockQuantity int            `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	ExpiryDate    *time.Time     `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MedicineItem) TableName() string { return "medicine_item" }

type MedicineRequest struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResidentID  uuid.UUID             `gorm:"type:uuid;not null;index" json:"resident_id"`
	Resident    *Resident             `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResidentID;references:ID" json:"resident,omitempty"`
	Status      string                `gorm:"not null;default:'pending';column:status" json:"status"`
	Reason      string                `gorm:"column:reason" json:"reason"`
	RequestedAt time.Time             `gorm:"not null;column:requested_at" json:"requested_at"`
	ResolvedAt  *time.Time            `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	Items       []MedicineRequestItem `gorm:"foreignKey:RequestID;references:ID" json:"items,omitempty"`
	CreatedAt   time.Time             `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt        `gorm:"index" json:"deleted_at,omitempty"`
}

func (MedicineRequest) TableName() string { return "medicine_request" }

type MedicineRequestItem struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RequestID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"request_id"`
	MedicineItemID uuid.UUID     `gorm:"type:uuid;not null;index" json:"medicine_item_id"`
	MedicineItem   *MedicineItem `gorm:"foreignKey:MedicineItemID;references:ID" json:"medicine_item,omitempty"`
	Quantity       int           `gorm:"not null;column:quantity" json:"quantity"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (MedicineRequestItem) TableName() string { return "medicine_request_item" }
