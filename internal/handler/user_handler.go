package handler

import (
	"gang-admin-api/internal/model"
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers lists every account
// GET /api/v1/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// CreateUser handles user creation
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.userService.CreateUser(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    result,
	})
}

// UpdateUser patches name, phone or role
// PATCH /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateUser(getActor(c), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated successfully", "data": user})
}

// UpdateRole
// PATCH /api/v1/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req struct {
		Role model.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateRole(getActor(c), userID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated", "data": user})
}

// ResetPassword sets the configured default password
// PATCH /api/v1/admin/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	resetTo, err := h.userService.ResetPassword(getActor(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset", "user_id": userID, "reset_to": resetTo})
}

// DeleteUser removes the account with its attendance and inventory rows
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	result, err := h.userService.DeleteUser(getActor(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully", "data": result})
}

// AdjustMoney
// PATCH /api/v1/admin/users/:id/money
func (h *UserHandler) AdjustMoney(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req service.AdjustMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.AdjustMoney(getActor(c), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Money updated", "data": user})
}
