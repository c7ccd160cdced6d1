package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BranchModel struct {
	BranchID         uuid.UUID `gorm:"column:branch_id;type:uuid;primaryKey" json:"branch_id"`
	BranchName       string    `gorm:"column:branch_name;size:255;not null;uniqueIndex:uq_branches_name" json:"branch_name"`
	BranchAddress    string    `gorm:"column:branch_address;size:255;not null" json:"branch_address"`
	BranchCity       string    `gorm:"column:branch_city;size:100;not null" json:"branch_city"`
	BranchPostalCode string    `gorm:"column:branch_postal_code;size:20;not null" json:"branch_postal_code"`
	BranchPhone      string    `gorm:"column:branch_phone;size:30;not null" json:"branch_phone"`
	BranchEmail      string    `gorm:"column:branch_email;size:255;not null" json:"branch_email"`

	// {"monday":"9:00 AM - 8:00 PM", ...}
	BranchOpeningHours datatypes.JSON `gorm:"column:branch_opening_hours" json:"branch_opening_hours,omitempty"`

	BranchCreatedAt time.Time `gorm:"column:branch_created_at;autoCreateTime" json:"branch_created_at"`
	BranchUpdatedAt time.Time `gorm:"column:branch_updated_at;autoUpdateTime" json:"branch_updated_at"`
}

func (BranchModel) TableName() string { return "branches" }

func (m *BranchModel) BeforeCreate(tx *gorm.DB) error {
	if m.BranchID == uuid.Nil {
		m.BranchID = uuid.New()
	}
	return nil
}
