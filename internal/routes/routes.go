package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/config"
	"github.com/smartcutlabs/salon-booking/internal/handlers"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/models"
	"github.com/smartcutlabs/salon-booking/internal/queue"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

// Deps carries the explicitly constructed collaborators handlers need.
type Deps struct {
	DB        *gorm.DB
	Store     store.Store
	Config    *config.Config
	Audit     *audit.Dispatcher
	Publisher *queue.Publisher
	Redis     *redis.Client
}

func Register(r *gin.Engine, deps Deps) {

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Store, deps.Config, deps.Audit)
	salonHandler := handlers.NewSalonHandler(deps.Store, deps.Audit)
	barberHandler := handlers.NewBarberHandler(deps.Store, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(deps.Store)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Store, deps.Audit, deps.Publisher)
	reviewHandler := handlers.NewReviewHandler(deps.Store, deps.Audit)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.DB, deps.Audit)

	var cached gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.Config.CacheEnabled {
		cached = middleware.ResponseCache(deps.Redis, deps.Config.CacheTTL)
	}

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC BROWSE
		// ------------------------------
		api.GET("/salons", cached, salonHandler.List)
		api.GET("/salons/:id", salonHandler.Get)
		api.GET("/barbers/:id", barberHandler.Get)
		api.GET("/barbers/:id/services", cached, barberHandler.ListServices)
		api.GET("/barbers/:id/reviews", barberHandler.ListReviews)
		api.GET("/barbers/:id/availability", barberHandler.Availability)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Config))
		{
			secured.GET("/auth/me", authHandler.Me)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/my", appointmentHandler.ListMine)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

			// ------------------------------
			// BARBER
			// ------------------------------
			barberOnly := secured.Group("/")
			barberOnly.Use(middleware.RequireRole(models.RoleBarber))
			{
				barberOnly.POST("/salons", salonHandler.Create)
				barberOnly.POST("/barbers", barberHandler.Create)
				barberOnly.PATCH("/barbers/availability", barberHandler.SetAvailability)
				barberOnly.POST("/services", serviceHandler.Create)
			}

			// ------------------------------
			// CUSTOMER
			// ------------------------------
			customerOnly := secured.Group("/")
			customerOnly.Use(middleware.RequireRole(models.RoleCustomer))
			{
				customerOnly.POST("/reviews", reviewHandler.Create)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			adminOnly := secured.Group("/admin")
			adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminOnly.GET("/stats", adminHandler.Stats)
				adminOnly.GET("/appointments", adminHandler.ListAppointments)
				adminOnly.GET("/users", adminHandler.ListUsers)
				adminOnly.PATCH("/salons/:id/approve", adminHandler.ApproveSalon)
				adminOnly.GET("/audit-logs", adminHandler.AuditLogs)
			}
		}
	}
}
