package queue

import "time"

const (
	QueueAppointmentBooked  = "appointment.booked"
	QueueAppointmentUpdated = "appointment.status_changed"
)

// AppointmentEvent is published on booking and on every status change so
// notification consumers can fan out without touching the API.
type AppointmentEvent struct {
	AppointmentID   string    `json:"appointment_id"`
	CustomerID      string    `json:"customer_id"`
	BarberID        string    `json:"barber_id"`
	ServiceID       string    `json:"service_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Status          string    `json:"status"`
	TotalPrice      string    `json:"total_price"`
	OccurredAt      time.Time `json:"occurred_at"`
}
