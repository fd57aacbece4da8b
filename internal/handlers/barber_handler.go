package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	domain "github.com/smartcutlabs/salon-booking/internal/domain/appointment"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type BarberHandler struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewBarberHandler(st store.Store, auditor *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{store: st, audit: auditor}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	SalonID      string                        `json:"salon_id" binding:"required"`
	Title        string                        `json:"title" binding:"required"`
	Bio          string                        `json:"bio"`
	Specialties  []string                      `json:"specialties"`
	Experience   int                           `json:"experience" binding:"omitempty,min=0"`
	WorkingHours map[string]models.DaySchedule `json:"working_hours"`
}

type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// --------- Handlers ---------

// Get returns a barber profile with services, reviews and salon.
func (h *BarberHandler) Get(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	barber, err := h.store.GetBarberByID(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_get_barber", "Error fetching barber.")
		return
	}
	if barber == nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	services, err := h.store.ListServicesByBarber(ctx, barber.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error fetching services.")
		return
	}

	reviews, err := h.store.ListReviewsByBarber(ctx, barber.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Error fetching reviews.")
		return
	}

	salon, err := h.store.GetSalonByID(ctx, barber.SalonID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_salon", "Error fetching salon.")
		return
	}

	httpresp.OK(c, gin.H{
		"barber":   barber,
		"services": services,
		"reviews":  reviews,
		"salon":    salon,
	})
}

// Create registers the calling barber's profile. One profile per user.
func (h *BarberHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	existing, err := h.store.GetBarberByUserID(ctx, userID)
	if err != nil {
		httperr.Internal(c, "failed_to_check_barber", "Error checking barber profile.")
		return
	}
	if existing != nil {
		httperr.BadRequest(c, "barber_already_exists", "Barber profile already exists for this user.")
		return
	}

	salon, err := h.store.GetSalonByID(ctx, req.SalonID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_salon", "Error fetching salon.")
		return
	}
	if salon == nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}

	barber, err := h.store.CreateBarber(ctx, store.CreateBarberInput{
		UserID:       userID,
		SalonID:      req.SalonID,
		Title:        req.Title,
		Bio:          req.Bio,
		Specialties:  req.Specialties,
		Experience:   req.Experience,
		WorkingHours: req.WorkingHours,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Error creating barber profile.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	httpresp.Created(c, barber)
}

// ListServices returns a barber's active services.
func (h *BarberHandler) ListServices(c *gin.Context) {
	services, err := h.store.ListServicesByBarber(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Error fetching services.")
		return
	}
	httpresp.List(c, services)
}

// ListReviews returns a barber's reviews with their authors.
func (h *BarberHandler) ListReviews(c *gin.Context) {
	reviews, err := h.store.ListReviewsByBarber(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Error fetching reviews.")
		return
	}
	httpresp.List(c, reviews)
}

// SetAvailability toggles the calling barber's soft-disable flag.
func (h *BarberHandler) SetAvailability(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	barber, err := h.store.GetBarberByUserID(ctx, userID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_barber", "Error fetching barber profile.")
		return
	}
	if barber == nil {
		httperr.NotFound(c, "barber_profile_not_found", "Barber profile not found.")
		return
	}

	if err := h.store.SetBarberAvailability(ctx, barber.ID, *req.IsAvailable); err != nil {
		httperr.Internal(c, "failed_to_update_availability", "Error updating availability.")
		return
	}

	httpresp.OK(c, gin.H{"id": barber.ID, "is_available": *req.IsAvailable})
}

// Availability computes free time slots for a barber, date and service.
func (h *BarberHandler) Availability(c *gin.Context) {
	barberID := c.Param("id")
	dateStr := c.Query("date")
	serviceID := c.Query("service_id")
	ctx := c.Request.Context()

	if dateStr == "" || serviceID == "" {
		httperr.BadRequest(c, "missing_params", "Date and service are required.")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	barber, err := h.store.GetBarberByID(ctx, barberID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_barber", "Error fetching barber.")
		return
	}
	if barber == nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	service, err := h.store.GetServiceByID(ctx, serviceID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_service", "Error fetching service.")
		return
	}
	if service == nil || service.BarberID != barber.ID {
		httperr.BadRequest(c, "service_not_found", "Service not found for this barber.")
		return
	}

	if !barber.IsAvailable {
		httpresp.OK(c, gin.H{"date": dateStr, "slots": []domain.TimeSlot{}})
		return
	}

	dayStart, dayEnd, ok := domain.DayWindow(barber.WorkingHours.Data(), date)
	if !ok {
		httpresp.OK(c, gin.H{"date": dateStr, "slots": []domain.TimeSlot{}})
		return
	}

	busy, err := h.store.ListBarberAppointmentsBetween(ctx, barber.ID, dayStart, dayEnd)
	if err != nil {
		httperr.Internal(c, "availability_failed", "Error computing availability.")
		return
	}

	slots := domain.FreeSlots(
		dayStart,
		dayEnd,
		time.Duration(service.DurationMin)*time.Minute,
		busy,
	)

	httpresp.OK(c, gin.H{"date": dateStr, "slots": slots})
}
