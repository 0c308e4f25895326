package controllers

import (
	"errors"
	"log"

	"quizserver/backend/middleware"
	"quizserver/backend/repository"
	"quizserver/backend/services"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Users   repository.UserStore
	Results *services.ResultsService
	Logger  *log.Logger
}

func NewUserController(users repository.UserStore, results *services.ResultsService, logger *log.Logger) *UserController {
	return &UserController{Users: users, Results: results, Logger: logger}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the caller's profile with attempt count and average percentage
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.Users.FindByID(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	results, err := uc.Results.ListResultsForUser(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	average := 0.0
	for _, r := range results {
		average += r.Percentage
	}
	if len(results) > 0 {
		average /= float64(len(results))
	}

	// Формируем ответ без чувствительных данных
	dto := user.ToDTO()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         dto.ID,
		"name":       dto.Name,
		"email":      dto.Email,
		"role":       dto.Role,
		"created_at": user.CreatedAt,
		"attempts":   len(results),
		"average":    average,
	})
}
