package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DaySchedule is one weekday's working window, e.g. {"start":"09:00","end":"18:00"}.
type DaySchedule struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Barber struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID string `gorm:"size:36;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	SalonID string `gorm:"size:36;index;not null" json:"salon_id"`
	Salon   Salon  `gorm:"foreignKey:SalonID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon,omitempty"`

	Title       string                      `gorm:"size:100;not null" json:"title"`
	Bio         string                      `gorm:"size:500" json:"bio"`
	Specialties datatypes.JSONSlice[string] `json:"specialties"`
	Experience  int                         `json:"experience"`
	Portfolio   datatypes.JSONSlice[string] `json:"portfolio"`

	Rating      decimal.Decimal `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewCount int             `gorm:"default:0" json:"review_count"`

	IsAvailable bool `gorm:"default:true" json:"is_available"`

	// Keyed by lowercase weekday name: "monday".."sunday".
	WorkingHours datatypes.JSONType[map[string]DaySchedule] `json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
