package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type ReviewHandler struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewReviewHandler(st store.Store, auditor *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{store: st, audit: auditor}
}

// --------- Requests ---------

type CreateReviewRequest struct {
	BarberID      string `json:"barber_id" binding:"required"`
	AppointmentID string `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// --------- Handlers ---------

func (h *ReviewHandler) Create(c *gin.Context) {
	customerID := middleware.UserID(c)
	ctx := c.Request.Context()

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	review, err := h.store.CreateReview(ctx, store.CreateReviewInput{
		CustomerID:    customerID,
		BarberID:      req.BarberID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_review", "Error creating review.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &customerID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &review.ID,
	})

	httpresp.Created(c, review)
}
