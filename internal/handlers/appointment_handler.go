package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	domain "github.com/smartcutlabs/salon-booking/internal/domain/appointment"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/queue"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type AppointmentHandler struct {
	store     store.Store
	audit     *audit.Dispatcher
	publisher *queue.Publisher
}

func NewAppointmentHandler(st store.Store, auditor *audit.Dispatcher, publisher *queue.Publisher) *AppointmentHandler {
	return &AppointmentHandler{store: st, audit: auditor, publisher: publisher}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	BarberID        string    `json:"barber_id" binding:"required"`
	ServiceID       string    `json:"service_id" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	Notes           string    `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --------- Handlers ---------

// Create books an appointment for the calling user. The total price is a
// snapshot of the service price at booking time and the status is always
// pending; overlapping bookings for the barber are rejected.
func (h *AppointmentHandler) Create(c *gin.Context) {
	customerID := middleware.UserID(c)
	ctx := c.Request.Context()

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service, err := h.store.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_service", "Error fetching service.")
		return
	}
	if service == nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	ap, err := h.store.CreateAppointment(ctx, store.CreateAppointmentInput{
		CustomerID:      customerID,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
		Notes:           req.Notes,
		TotalPrice:      service.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTimeConflict):
			httperr.Conflict(c, "time_conflict", "The barber is already booked for this time.")
		case errors.Is(err, store.ErrNotFound):
			httperr.NotFound(c, "service_not_found", "Service not found.")
		default:
			httperr.Internal(c, "failed_to_create_appointment", "Error creating appointment.")
		}
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &customerID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	h.publisher.Publish(ctx, queue.QueueAppointmentBooked, appointmentEvent(ap))

	httpresp.Created(c, ap)
}

// ListMine dispatches on the caller's role: customers see their bookings,
// barbers see their schedule, admins are pointed at the admin listing.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	switch middleware.UserRole(c) {
	case models.RoleCustomer:
		aps, err := h.store.ListAppointmentsByCustomer(ctx, userID)
		if err != nil {
			h.listError(c, err)
			return
		}
		httpresp.List(c, aps)

	case models.RoleBarber:
		barber, err := h.store.GetBarberByUserID(ctx, userID)
		if err != nil {
			httperr.Internal(c, "failed_to_get_barber", "Error fetching barber profile.")
			return
		}
		if barber == nil {
			httperr.NotFound(c, "barber_profile_not_found", "Barber profile not found.")
			return
		}

		aps, err := h.store.ListAppointmentsByBarber(ctx, barber.ID)
		if err != nil {
			h.listError(c, err)
			return
		}
		httpresp.List(c, aps)

	default:
		httperr.Forbidden(c, "invalid_role", "Invalid role for this endpoint.")
	}
}

func (h *AppointmentHandler) listError(c *gin.Context, err error) {
	if store.IsInconsistent(err) {
		httperr.Internal(c, "inconsistent_data", err.Error())
		return
	}
	httperr.Internal(c, "failed_to_list_appointments", "Error fetching appointments.")
}

// UpdateStatus moves an appointment through its lifecycle. Illegal moves are
// rejected by the transition table.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actorID := middleware.UserID(c)
	id := c.Param("id")
	ctx := c.Request.Context()

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		httperr.BadRequest(c, "invalid_status", "Unknown appointment status.")
		return
	}

	ap, err := h.store.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		var ite domain.InvalidTransitionError
		switch {
		case errors.Is(err, store.ErrNotFound):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case errors.As(err, &ite):
			httperr.Conflict(c, "invalid_transition", ite.Error())
		default:
			httperr.Internal(c, "failed_to_update_appointment", "Error updating appointment.")
		}
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"status": ap.Status},
	})

	h.publisher.Publish(ctx, queue.QueueAppointmentUpdated, appointmentEvent(ap))

	httpresp.OK(c, ap)
}

func appointmentEvent(ap *models.Appointment) queue.AppointmentEvent {
	return queue.AppointmentEvent{
		AppointmentID:   ap.ID,
		CustomerID:      ap.CustomerID,
		BarberID:        ap.BarberID,
		ServiceID:       ap.ServiceID,
		AppointmentDate: ap.AppointmentDate,
		Status:          ap.Status,
		TotalPrice:      ap.TotalPrice.StringFixed(2),
		OccurredAt:      time.Now().UTC(),
	}
}
