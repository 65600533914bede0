package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GangWalletHandler struct {
	service service.GangWalletService
}

func NewGangWalletHandler(s service.GangWalletService) *GangWalletHandler {
	return &GangWalletHandler{service: s}
}

// GetOverview returns the balance and the latest ledger rows
// GET /api/v1/admin/gang-wallet
func (h *GangWalletHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

// PostTransaction
// POST /api/v1/admin/gang-wallet/transaction
func (h *GangWalletHandler) PostTransaction(c *fiber.Ctx) error {
	var req service.PostWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	row, err := h.service.Post(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction recorded",
		"balance": row.BalanceAfter,
		"data":    row,
	})
}
