package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SummonCaseFiled     = "filed"
	SummonCaseScheduled = "scheduled"
	SummonCaseSettled   = "settled"
	SummonCaseEscalated = "escalated"

	// Lupon mediation allows at most three hearings before a case
	// becomes eligible for escalation.
	MaxHearingsPerCase = 3
)

type SummonCase struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaseNumber   string          `gorm:"uniqueIndex;not null;column:case_number" json:"case_number"`
	Nature       string          `gorm:"column:nature" json:"nature"`
	Details      string          `gorm:"column:details" json:"details"`
	Complainants datatypes.JSON  `gorm:"column:complainants;type:jsonb" json:"complainants"`
	Respondents  datatypes.JSON  `gorm:"column:respondents;type:jsonb" json:"respondents"`
	Status       string          `gorm:"not null;default:'filed';column:status" json:"status"`
	FiledAt      time.Time       `gorm:"not null;column:filed_at" json:"filed_at"`
	Hearings     []SummonHearing `gorm:"foreignKey:CaseID;references:ID" json:"hearings,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (SummonCase) TableName() string { return "summon_case" }

type SummonHearing struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CaseID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"case_id"`
	Case        *SummonCase `gorm:"constraint:OnDelete:CASCADE;foreignKey:CaseID;references:ID" json:"case,omitempty"`
	Number      int         `gorm:"not null;column:number" json:"number"`
	ScheduledAt time.Time   `gorm:"not null;column:scheduled_at" json:"scheduled_at"`
	Venue       string      `gorm:"column:venue" json:"venue"`
	Outcome     string      `gorm:"column:outcome" json:"outcome"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (SummonHearing) TableName() string { return "summon_hearing" }
