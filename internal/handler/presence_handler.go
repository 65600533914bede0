package handler

import (
	"strings"

	"gang-admin-api/internal/presence"
	"gang-admin-api/internal/ws"
	"gang-admin-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type PresenceHandler struct {
	store presence.Store
	wsHub *ws.Hub
}

func NewPresenceHandler(store presence.Store, hub *ws.Hub) *PresenceHandler {
	return &PresenceHandler{store: store, wsHub: hub}
}

type HeartbeatRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// Heartbeat marks the client online and returns everyone seen recently.
// POST /api/v1/presence/heartbeat
func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	var req HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return badRequest(c, errs[0].String())
	}

	active, err := h.store.Heartbeat(c.UserContext(), presence.Entry{ID: req.ID, Name: req.Name, Role: req.Role})
	if err != nil {
		return respondError(c, err)
	}
	h.wsHub.Publish(ws.EventPresenceUpdate, "heartbeat", "", active)
	return c.JSON(active)
}

// GET /api/v1/presence/active
func (h *PresenceHandler) Active(c *fiber.Ctx) error {
	active, err := h.store.Active(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(active)
}
