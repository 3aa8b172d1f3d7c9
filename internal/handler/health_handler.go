package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

func RegisterHealthRoutes(router fiber.Router, environment string) {
	router.Get("/health", HealthHandler(environment))
}

func HealthHandler(environment string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(healthResponse{
			Status:      "ok",
			Message:     "Server is running",
			Environment: environment,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
