package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/services"
)

func (handler *Handler) ChatStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"available": handler.assistant.Configured()})
}

func (handler *Handler) Chat(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input chatInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(input.Message) == "" {
		return apiError(c, fiber.StatusBadRequest, "empty message")
	}

	reply, err := handler.assistant.Reply(c.Context(), input.History, input.Message)
	if err != nil {
		if errors.Is(err, services.ErrAssistantUnauthorized) {
			return apiError(c, fiber.StatusServiceUnavailable, "assistant unavailable")
		}
		return apiError(c, fiber.StatusBadGateway, "assistant request failed")
	}

	return c.JSON(fiber.Map{
		"role":    services.RoleAssistant,
		"content": reply,
	})
}
