package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AnnouncementHandler struct {
	service service.AnnouncementService
}

func NewAnnouncementHandler(s service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: s}
}

// GetActive lists what members see now, urgent first
func (h *AnnouncementHandler) GetActive(c *fiber.Ctx) error {
	list, err := h.service.Active()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *AnnouncementHandler) GetAll(c *fiber.Ctx) error {
	list, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req service.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	a, err := h.service.Create(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Announcement created", "data": a})
}

func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	var req service.UpdateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	a, err := h.service.Update(getActor(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Announcement updated", "data": a})
}

func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	if err := h.service.Delete(getActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}
