package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type ServiceHandler struct {
	store store.Store
}

func NewServiceHandler(st store.Store) *ServiceHandler {
	return &ServiceHandler{store: st}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration" binding:"required,min=1"`
	Price       string `json:"price" binding:"required"`
}

// --------- Handlers ---------

// Create attaches a new service to the calling barber's profile.
func (h *ServiceHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Price must be a non-negative decimal.")
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

	service, err := h.store.CreateService(ctx, store.CreateServiceInput{
		BarberID:    barber.ID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       price,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_service", "Error creating service.")
		return
	}

	httpresp.Created(c, service)
}
