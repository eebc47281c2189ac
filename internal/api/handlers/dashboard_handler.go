package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dsnmoura/thrg-flow/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: s}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)

	summary, err := h.s.Summary(c.Context(), userID)
	if err != nil {
		return postError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}
