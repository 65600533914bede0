package handler

import (
	"strconv"

	"gang-admin-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	userService       service.UserService
}

func NewAttendanceHandler(attendanceService service.AttendanceService, userService service.UserService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, userService: userService}
}

// GetUsers is the public roster for attendance sheets.
// GET /api/v1/attendance/users
func (h *AttendanceHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.Roster()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *AttendanceHandler) GetToday(c *fiber.Ctx) error {
	status, err := h.attendanceService.Today(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// CheckIn
// POST /api/v1/attendance/checkin
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	result, err := h.attendanceService.CheckIn(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// AdminCheckIn overrides or clears one user's round.
// POST /api/v1/attendance/admin-checkin
func (h *AttendanceHandler) AdminCheckIn(c *fiber.Ctx) error {
	var req service.AdminCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.attendanceService.AdminCheckIn(getActor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *AttendanceHandler) GetMine(c *fiber.Ctx) error {
	logs, err := h.attendanceService.MyHistory(getActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}

// List filters attendance rows
// Query params: date or startDate/endDate (YYYY-MM-DD), session
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	q := service.AttendanceQuery{
		Day:      c.Query("date"),
		StartDay: c.Query("startDate"),
		EndDay:   c.Query("endDate"),
	}
	if raw := c.Query("session"); raw != "" {
		session, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid session")
		}
		q.Session = &session
	}

	logs, err := h.attendanceService.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}

// Statistics
// Query params: startDate, endDate (default the last 30 days)
func (h *AttendanceHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.attendanceService.Statistics(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
