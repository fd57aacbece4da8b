package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smartcutlabs/salon-booking/internal/audit"
	"github.com/smartcutlabs/salon-booking/internal/cache"
	"github.com/smartcutlabs/salon-booking/internal/config"
	dbpkg "github.com/smartcutlabs/salon-booking/internal/db"
	"github.com/smartcutlabs/salon-booking/internal/middleware"
	"github.com/smartcutlabs/salon-booking/internal/queue"
	"github.com/smartcutlabs/salon-booking/internal/routes"
	"github.com/smartcutlabs/salon-booking/internal/store"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()

	db, err := dbpkg.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	st := store.NewGormStore(db)

	if cfg.SeedFixtures {
		if err := store.Seed(context.Background(), st); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed fixtures")
		}
		logger.Info().Msg("fixture data seeded")
	}

	auditor := audit.NewDispatcher(audit.New(db), logger)
	defer auditor.Close()

	publisher := queue.NewPublisher(cfg.QueueURL, logger)

	rdb := cache.NewRedisClient(cfg)
	if cfg.RedisAddr != "" && rdb == nil {
		logger.Warn().Str("addr", cfg.RedisAddr).Msg("redis unreachable, response cache disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Register(r, routes.Deps{
		DB:        db,
		Store:     st,
		Config:    cfg,
		Audit:     auditor,
		Publisher: publisher,
		Redis:     rdb,
	})

	logger.Info().Str("addr", cfg.Addr()).Str("db_driver", cfg.DBDriver).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
