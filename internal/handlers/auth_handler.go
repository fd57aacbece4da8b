package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/config"
	"github.com/smartcutlabs/salon-booking/internal/httperr"
	"github.com/smartcutlabs/salon-booking/internal/httpresp"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/store"
	"github.com/smartcutlabs/salon-booking/internal/validators"
)

type AuthHandler struct {
	store  store.Store
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(st store.Store, cfg *config.Config, auditor *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{store: st, config: cfg, audit: auditor}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.config.StrictEmailMX && !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	role := models.RoleCustomer
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil || parsed == models.RoleAdmin {
			httperr.BadRequest(c, "invalid_role", "Role must be customer or barber.")
			return
		}
		role = parsed
	}

	existing, err := h.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		httperr.Internal(c, "failed_to_check_email", "Error checking registration.")
		return
	}
	if existing != nil {
		httperr.BadRequest(c, "email_already_registered", "User already exists.")
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), store.CreateUserInput{
		Email:    email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_user", "Error creating user.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error generating token.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Created(c, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.store.ValidateUser(c.Request.Context(), email, req.Password)
	if err != nil {
		httperr.Internal(c, "internal_error", "Error validating credentials.")
		return
	}
	if user == nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Error generating token.")
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_user", "Error fetching user.")
		return
	}
	if user == nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	httpresp.OK(c, publicUser(user))
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(h.config.TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
