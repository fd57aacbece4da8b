package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/smartcutlabs/salon-booking/internal/domain/appointment"
	"github.com/smartcutlabs/salon-booking/internal/models"
)

// ======================================================
// INPUTS
// ======================================================

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     models.Role // defaults to customer when empty
}

type CreateSalonInput struct {
	OwnerID     string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
}

type CreateBarberInput struct {
	UserID       string
	SalonID      string
	Title        string
	Bio          string
	Specialties  []string
	Experience   int
	WorkingHours map[string]models.DaySchedule
}

type CreateServiceInput struct {
	BarberID    string
	Name        string
	Description string
	DurationMin int
	Price       decimal.Decimal
}

type CreateAppointmentInput struct {
	CustomerID string
	BarberID   string
	ServiceID  string

	AppointmentDate time.Time
	Notes           string

	// TotalPrice is the caller-captured snapshot of the service price.
	TotalPrice decimal.Decimal
}

type CreateReviewInput struct {
	CustomerID    string
	BarberID      string
	AppointmentID string
	Rating        int
	Comment       string
}

type Stats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalSalons       int64 `json:"total_salons"`
	TotalAppointments int64 `json:"total_appointments"`
	PendingSalons     int64 `json:"pending_salons"`
}

// ======================================================
// STORE
// ======================================================

// Store is the entity store for the six booking entities plus credential
// verification. Lookups by id/email return (nil, nil) when nothing matches;
// mutating operations on unknown records return ErrNotFound.
type Store interface {
	// -------- Users --------
	CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ValidateUser(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// -------- Salons --------
	CreateSalon(ctx context.Context, in CreateSalonInput) (*models.Salon, error)
	ListApprovedSalons(ctx context.Context) ([]models.Salon, error)
	GetSalonByID(ctx context.Context, id string) (*models.Salon, error)
	SetSalonApproval(ctx context.Context, id string, approved bool) error

	// -------- Barbers --------
	CreateBarber(ctx context.Context, in CreateBarberInput) (*models.Barber, error)
	GetBarberByID(ctx context.Context, id string) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID string) (*models.Barber, error)
	ListBarbersBySalon(ctx context.Context, salonID string) ([]models.Barber, error)
	SetBarberAvailability(ctx context.Context, id string, available bool) error

	// -------- Services --------
	CreateService(ctx context.Context, in CreateServiceInput) (*models.Service, error)
	ListServicesByBarber(ctx context.Context, barberID string) ([]models.Service, error)
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)

	// -------- Appointments --------
	CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error)
	ListAppointmentsByCustomer(ctx context.Context, customerID string) ([]models.Appointment, error)
	ListAppointmentsByBarber(ctx context.Context, barberID string) ([]models.Appointment, error)
	ListAllAppointments(ctx context.Context) ([]models.Appointment, error)
	ListBarberAppointmentsBetween(ctx context.Context, barberID string, start, end time.Time) ([]domain.Interval, error)
	GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status domain.Status) (*models.Appointment, error)

	// -------- Reviews --------
	CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error)
	ListReviewsByBarber(ctx context.Context, barberID string) ([]models.Review, error)

	// -------- Admin --------
	GetStats(ctx context.Context) (*Stats, error)
}
