package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type SalonHandler struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewSalonHandler(st store.Store, auditor *audit.Dispatcher) *SalonHandler {
	return &SalonHandler{store: st, audit: auditor}
}

// --------- Requests ---------

type CreateSalonRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// --------- Handlers ---------

// List returns only approved and active salons.
func (h *SalonHandler) List(c *gin.Context) {
	salons, err := h.store.ListApprovedSalons(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_salons", "Error fetching salons.")
		return
	}

	httpresp.List(c, salons)
}

// Get returns a salon with its barbers.
func (h *SalonHandler) Get(c *gin.Context) {
	id := c.Param("id")

	salon, err := h.store.GetSalonByID(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, "failed_to_get_salon", "Error fetching salon.")
		return
	}
	if salon == nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}

	barbers, err := h.store.ListBarbersBySalon(c.Request.Context(), salon.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Error fetching barbers.")
		return
	}

	httpresp.OK(c, gin.H{
		"salon":   salon,
		"barbers": barbers,
	})
}

// Create registers a new salon owned by the calling barber. It starts
// unapproved and stays off the public list until an admin approves it.
func (h *SalonHandler) Create(c *gin.Context) {
	ownerID := middleware.UserID(c)

	var req CreateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	salon, err := h.store.CreateSalon(c.Request.Context(), store.CreateSalonInput{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_salon", "Error creating salon.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &ownerID,
		Action:   "salon_created",
		Entity:   "salon",
		EntityID: &salon.ID,
	})

	httpresp.Created(c, salon)
}
