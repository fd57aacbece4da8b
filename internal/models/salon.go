package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Salon struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Address     string `gorm:"size:255;not null" json:"address"`
	Phone       string `gorm:"size:20" json:"phone"`
	Email       string `gorm:"size:100" json:"email"`

	Images datatypes.JSONSlice[string] `json:"images"`

	Rating      decimal.Decimal `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewCount int             `gorm:"default:0" json:"review_count"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsApproved bool `gorm:"default:false" json:"is_approved"`

	OwnerID string `gorm:"size:36;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
