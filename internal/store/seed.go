package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smartcutlabs/salon-booking/internal/models"
)

// Seed loads the demo fixtures: an admin, a barber with an approved salon,
// profile and two services, and a customer. Safe to skip when users already
// exist.
func Seed(ctx context.Context, s Store) error {
	if existing, err := s.GetUserByEmail(ctx, "admin@smartcut.com"); err != nil {
		return err
	} else if existing != nil {
		return nil
	}

	_, err := s.CreateUser(ctx, CreateUserInput{
		Email:    "admin@smartcut.com",
		Password: "admin123",
		Name:     "Admin User",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	barberUser, err := s.CreateUser(ctx, CreateUserInput{
		Email:    "marcus@smartcut.com",
		Password: "barber123",
		Name:     "Marcus Johnson",
		Phone:    "(555) 123-4567",
		Role:     models.RoleBarber,
	})
	if err != nil {
		return fmt.Errorf("seed barber user: %w", err)
	}

	_, err = s.CreateUser(ctx, CreateUserInput{
		Email:    "john@example.com",
		Password: "customer123",
		Name:     "John Smith",
		Phone:    "(555) 987-6543",
		Role:     models.RoleCustomer,
	})
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	salon, err := s.CreateSalon(ctx, CreateSalonInput{
		OwnerID:     barberUser.ID,
		Name:        "Premium Cuts",
		Description: "A modern barbershop specializing in classic and contemporary cuts",
		Address:     "123 Main Street, Downtown",
		Phone:       "(555) 555-0123",
		Email:       "info@premiumcuts.com",
	})
	if err != nil {
		return fmt.Errorf("seed salon: %w", err)
	}

	if err := s.SetSalonApproval(ctx, salon.ID, true); err != nil {
		return fmt.Errorf("seed salon approval: %w", err)
	}

	weekdays := models.DaySchedule{Start: "09:00", End: "18:00"}
	barber, err := s.CreateBarber(ctx, CreateBarberInput{
		UserID:      barberUser.ID,
		SalonID:     salon.ID,
		Title:       "Master Barber",
		Bio:         "Passionate barber specializing in modern cuts, beard grooming, and traditional hot towel shaves.",
		Specialties: []string{"Fade Cuts", "Beard Styling", "Hot Towel Shave", "Hair Washing"},
		Experience:  8,
		WorkingHours: map[string]models.DaySchedule{
			"monday":    weekdays,
			"tuesday":   weekdays,
			"wednesday": weekdays,
			"thursday":  weekdays,
			"friday":    weekdays,
			"saturday":  {Start: "10:00", End: "16:00"},
		},
	})
	if err != nil {
		return fmt.Errorf("seed barber profile: %w", err)
	}

	_, err = s.CreateService(ctx, CreateServiceInput{
		BarberID:    barber.ID,
		Name:        "Classic Haircut",
		Description: "Professional cut with styling",
		DurationMin: 45,
		Price:       decimal.RequireFromString("35.00"),
	})
	if err != nil {
		return fmt.Errorf("seed service: %w", err)
	}

	_, err = s.CreateService(ctx, CreateServiceInput{
		BarberID:    barber.ID,
		Name:        "Fade + Beard Trim",
		Description: "Premium fade with beard styling",
		DurationMin: 60,
		Price:       decimal.RequireFromString("55.00"),
	})
	if err != nil {
		return fmt.Errorf("seed service: %w", err)
	}

	return nil
}
