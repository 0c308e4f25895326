package controllers

import (
	"context"
	"time"

	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} utils.ErrorResponse
// @Router /health [get]
func (hc *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return utils.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}

	cache := "disabled"
	if hc.Redis != nil {
		cache = "ok"
		if err := hc.Redis.Ping(ctx).Err(); err != nil {
			cache = "unavailable"
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"status":   "ok",
		"database": "ok",
		"cache":    cache,
	})
}
