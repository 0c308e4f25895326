package controllers

import (
	"errors"
	"log"
	"strconv"

	"quizserver/backend/services"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return utils.InternalServerError(c, "Internal server error")
	}

	switch svcErr.Kind {
	case services.KindNotFound:
		return utils.NotFound(c, svcErr.Message)
	case services.KindConflict:
		return utils.Conflict(c, svcErr.Message)
	case services.KindInvalidInput:
		return utils.BadRequest(c, svcErr.Message)
	case services.KindBusinessRule:
		return utils.UnprocessableEntity(c, svcErr.Message)
	default:
		logger.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return utils.InternalServerError(c, svcErr.Message)
	}
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
