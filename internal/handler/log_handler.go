package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LogHandler struct {
	service service.ActionLogService
}

func NewLogHandler(s service.ActionLogService) *LogHandler {
	return &LogHandler{service: s}
}

// List returns audit rows; members only ever see their own.
// Query params: take, skip, actionType, actionTypes, performerId
func (h *LogHandler) List(c *fiber.Ctx) error {
	q := service.LogQuery{
		Take:        queryInt(c, "take"),
		Skip:        queryInt(c, "skip"),
		ActionType:  c.Query("actionType"),
		ActionTypes: c.Query("actionTypes"),
	}
	if raw := c.Query("performerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid performer ID")
		}
		q.PerformerID = &id
	}

	page, err := h.service.List(getActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *LogHandler) Mine(c *fiber.Ctx) error {
	rows, err := h.service.Mine(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
