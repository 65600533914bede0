package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

// GET /api/v1/admin/settings
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// PUT /api/v1/admin/settings
func (h *SettingHandler) UpsertSetting(c *fiber.Ctx) error {
	var req service.UpsertSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	setting, err := h.service.Upsert(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Setting saved", "data": setting})
}
