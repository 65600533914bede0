package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetCheckinStatus pages through today's check-in state
// Query params: page (default 1), limit (default 10)
func (h *DashboardHandler) GetCheckinStatus(c *fiber.Ctx) error {
	page, err := h.service.CheckinStatus(queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *DashboardHandler) GetActivities(c *fiber.Ctx) error {
	activities, err := h.service.Activities()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(activities)
}

func (h *DashboardHandler) GetTotalMoney(c *fiber.Ctx) error {
	total, err := h.service.TotalMoney()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(total)
}

func (h *DashboardHandler) WeeklyPayment(c *fiber.Ctx) error {
	var req service.WeeklyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	change, err := h.service.WeeklyPayment(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(change)
}

func (h *DashboardHandler) AdjustTotalMoney(c *fiber.Ctx) error {
	var req service.TotalMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	change, err := h.service.AdjustTotalMoney(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(change)
}
