package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Felixnganga-max/kamson/internal/apperr"
)

// ErrorHandler renders every error escaping a handler into the JSON
// envelope. The wrapped cause is only exposed in development mode.
func ErrorHandler(dev bool, log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		ae := apperr.From(err)
		if ae.Code >= fiber.StatusInternalServerError {
			log.Errorw("request failed",
				"method", c.Method(), "path", c.Path(), "error", err, "stack", ae.Stack)
		}

		payload := fiber.Map{
			"status":  apperr.StatusWord(ae.Code),
			"message": ae.Message,
		}
		for k, v := range ae.Details {
			payload[k] = v
		}
		if dev {
			if ae.Err != nil {
				payload["error"] = ae.Err.Error()
			}
			if ae.Stack != "" {
				payload["stack"] = ae.Stack
			}
		}
		return c.Status(ae.Code).JSON(payload)
	}
}

// NotFound answers any unmatched route.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "fail",
		"message": fmt.Sprintf("Can't find %s on this server!", c.OriginalURL()),
	})
}
