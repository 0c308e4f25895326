package controllers

import (
	"log"

	"quizserver/backend/services"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	Leaderboard *services.LeaderboardService
	Logger      *log.Logger
}

func NewAnalyticsController(leaderboard *services.LeaderboardService, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{Leaderboard: leaderboard, Logger: logger}
}

// GetLeaderboard возвращает лучший результат каждого участника теста
// @Summary Test leaderboard
// @Tags analytics
// @Produce json
// @Param id path int true "Test ID"
// @Param limit query int false "Entries to return" default(10)
// @Success 200 {array} models.LeaderboardEntryDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/leaderboard/{id} [get]
func (ac *AnalyticsController) GetLeaderboard(c *fiber.Ctx) error {
	testID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}
	limit := c.QueryInt("limit", services.DefaultLeaderboardLimit)

	entries, err := ac.Leaderboard.Leaderboard(c.UserContext(), testID, limit)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, entries)
}

// GetTestAnalytics возвращает статистику попыток по тесту
// @Summary Test analytics
// @Tags analytics
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} models.TestAnalyticsDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/{id}/analytics [get]
func (ac *AnalyticsController) GetTestAnalytics(c *fiber.Ctx) error {
	testID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}

	stats, err := ac.Leaderboard.TestAnalytics(c.UserContext(), testID)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}
