package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dsnmoura/thrg-flow/internal/service"
)

type APIKeyHandler struct {
	s service.APIKeyService
}

func NewAPIKeyHandler(s service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{s: s}
}

func (h *APIKeyHandler) CreateKey(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.Create(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "API key created",
	})
}

func (h *APIKeyHandler) ListKeys(c *fiber.Ctx) error {
	userID := GetUserID(c)

	keys, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list API keys",
		})
	}
	return c.Status(fiber.StatusOK).JSON(keys)
}

func (h *APIKeyHandler) RemoveKey(c *fiber.Ctx) error {
	userID := GetUserID(c)
	keyID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid key id",
		})
	}

	if err := h.s.Remove(c.Context(), userID, int64(keyID)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusOK)
}
