package handler

import (
	"errors"
	"strconv"

	"gang-admin-api/internal/middleware"
	"gang-admin-api/internal/model"
	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// getActor reads the caller set by middleware.RequireAuth.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals(middleware.LocalUserID).(uuid.UUID); ok {
		actor.ID = id
	}
	if role, ok := c.Locals(middleware.LocalUserRole).(model.Role); ok {
		actor.Role = role
	}
	if name, ok := c.Locals(middleware.LocalUserName).(string); ok {
		actor.Name = name
	}
	return actor
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func queryInt(c *fiber.Ctx, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

// statusFor maps service error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrOutsideRound),
		errors.Is(err, service.ErrItemHasTransactions),
		errors.Is(err, service.ErrPhoneExists),
		errors.Is(err, service.ErrItemExists):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"message"}; unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		}).Error("request failed")
		return c.Status(status).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}
