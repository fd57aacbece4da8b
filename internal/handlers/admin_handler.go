package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

type AdminHandler struct {
	store store.Store
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminHandler(st store.Store, db *gorm.DB, auditor *audit.Dispatcher) *AdminHandler {
	return &AdminHandler{store: st, db: db, audit: auditor}
}

// --------- Requests ---------

type ApproveSalonRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

// --------- Handlers ---------

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.store.GetStats(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error fetching stats.")
		return
	}
	httpresp.OK(c, stats)
}

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	aps, err := h.store.ListAllAppointments(c.Request.Context())
	if err != nil {
		if store.IsInconsistent(err) {
			httperr.Internal(c, "inconsistent_data", err.Error())
			return
		}
		httperr.Internal(c, "failed_to_list_appointments", "Error fetching appointments.")
		return
	}
	httpresp.List(c, aps)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_users", "Error fetching users.")
		return
	}
	httpresp.List(c, users)
}

func (h *AdminHandler) ApproveSalon(c *gin.Context) {
	actorID := middleware.UserID(c)
	id := c.Param("id")

	var req ApproveSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.store.SetSalonApproval(c.Request.Context(), id, *req.IsApproved); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salon not found.")
			return
		}
		httperr.Internal(c, "failed_to_update_approval", "Error updating salon approval.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "salon_approval_changed",
		Entity:   "salon",
		EntityID: &id,
		Metadata: map[string]bool{"is_approved": *req.IsApproved},
	})

	httpresp.OK(c, gin.H{"id": id, "is_approved": *req.IsApproved})
}

// AuditLogs lists the audit trail, newest first, with optional filters.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Error counting logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Error listing logs.")
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
