package handler

import (
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MeHandler struct {
	profileService service.ProfileService
}

func NewMeHandler(profileService service.ProfileService) *MeHandler {
	return &MeHandler{profileService: profileService}
}

// Get returns the caller's profile
// GET /api/v1/me
func (h *MeHandler) Get(c *fiber.Ctx) error {
	user, err := h.profileService.Get(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Update changes name, avatar URL or password
// PATCH /api/v1/me
func (h *MeHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.profileService.Update(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "data": user})
}
