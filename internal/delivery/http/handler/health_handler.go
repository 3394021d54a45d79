package handler

import (
	"github.com/gofiber/fiber/v2"

	"promptlab-api/internal/delivery/http/dto"
)

// Health godoc
// @Summary      Health check
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.HealthResponse{Status: "ok"})
}
