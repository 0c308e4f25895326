package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is the c.Locals key the requestid middleware writes to.
const RequestIDKey = "requestid"

const resetColor = "\033[0m"

func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		method := c.Method()

		var statusColor, methodColor, reset string
		if colors {
			statusColor, methodColor, reset = getStatusColor(status), getMethodColor(method), resetColor
		}

		requestID, _ := c.Locals(RequestIDKey).(string)
		line := []interface{}{
			c.IP(),
			methodColor, method, reset,
			c.Path(),
			statusColor, status, reset,
			time.Since(start),
			requestID,
		}
		if err != nil {
			logger.Printf("%s %s%s%s %s %s%d%s %v id=%s err=%v", append(line, err)...)
		} else {
			logger.Printf("%s %s%s%s %s %s%d%s %v id=%s", line...)
		}

		return err
	}
}

func getStatusColor(status int) string {
	switch {
	case status >= 500:
		return "\033[31m" // Красный
	case status >= 400:
		return "\033[33m" // Желтый
	case status >= 300:
		return "\033[36m" // Голубой
	case status >= 200:
		return "\033[32m" // Зеленый
	default:
		return "\033[37m" // Белый
	}
}

func getMethodColor(method string) string {
	switch method {
	case fiber.MethodGet:
		return "\033[34m"
	case fiber.MethodPost:
		return "\033[33m"
	case fiber.MethodPut:
		return "\033[36m"
	case fiber.MethodDelete:
		return "\033[31m"
	default:
		return "\033[37m"
	}
}
