package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dsnmoura/thrg-flow/internal/service"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(s service.ContentService) *ContentHandler {
	return &ContentHandler{s: s}
}

func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	var req transfer.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	content, err := h.s.Generate(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(content)
}
