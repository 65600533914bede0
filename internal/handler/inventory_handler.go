package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.CreateItem(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	var req service.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	item, err := h.service.UpdateItem(getActor(c), itemID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid item ID")
	}

	if err := h.service.DeleteItem(getActor(c), itemID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// Withdraw takes stock out; any member may withdraw.
// POST /api/v1/inventory/withdraw
func (h *InventoryHandler) Withdraw(c *fiber.Ctx) error {
	var req service.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Withdraw(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Withdrawal recorded", "data": result})
}

// Deposit puts stock back; the route is admin only.
// POST /api/v1/inventory/deposit
func (h *InventoryHandler) Deposit(c *fiber.Ctx) error {
	var req service.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Deposit(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Deposit recorded", "data": result})
}

// GetTransactions lists ledger rows
// Query params: startDate, endDate (YYYY-MM-DD), itemId, type
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	q := service.TransactionQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Type:      c.Query("type"),
	}
	if raw := c.Query("itemId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid item ID")
		}
		q.ItemID = &id
	}

	list, err := h.service.Transactions(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *InventoryHandler) GetMyTransactions(c *fiber.Ctx) error {
	rows, err := h.service.MyTransactions(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GetSummary rolls up one day
// Query params: date (YYYY-MM-DD, default today)
func (h *InventoryHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.DailySummary(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
