package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerID string `gorm:"size:36;index;not null" json:"customer_id"`
	Customer   User   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	BarberID string `gorm:"size:36;index;not null" json:"barber_id"`
	Barber   Barber `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	ServiceID string  `gorm:"size:36;index;not null" json:"service_id"`
	Service   Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	AppointmentDate time.Time `gorm:"not null" json:"appointment_date"`
	// EndTime is AppointmentDate plus the booked service's duration,
	// fixed at booking time.
	EndTime time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// TotalPrice is a snapshot of the service price at booking time; later
	// price changes never touch it.
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
