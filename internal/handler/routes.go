package handler

import (
	"gang-admin-api/internal/middleware"
	"gang-admin-api/internal/model"
	"gang-admin-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth         *AuthHandler
	Me           *MeHandler
	User         *UserHandler
	Dashboard    *DashboardHandler
	Inventory    *InventoryHandler
	Attendance   *AttendanceHandler
	GangWallet   *GangWalletHandler
	Announcement *AnnouncementHandler
	Setting      *SettingHandler
	Presence     *PresenceHandler
	Log          *LogHandler
}

// RegisterRoutes mounts /api/v1 and, when hub is non-nil, the /ws endpoint.
func RegisterRoutes(app *fiber.App, h Handlers, tokens middleware.TokenValidator, hub *ws.Hub) {
	api := app.Group("/api/v1")
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", middleware.LoginRateLimiter(), h.Auth.Login)
	api.Get("/attendance/users", h.Attendance.GetUsers)
	api.Post("/presence/heartbeat", h.Presence.Heartbeat)
	api.Get("/presence/active", h.Presence.Active)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(tokens))

	protected.Get("/me", h.Me.Get)
	protected.Patch("/me", h.Me.Update)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Get("/today", h.Attendance.GetToday)
	attendance.Post("/checkin", h.Attendance.CheckIn)
	attendance.Get("/me", h.Attendance.GetMine)
	attendance.Post("/admin-checkin", adminOnly, h.Attendance.AdminCheckIn)
	attendance.Get("/", adminOnly, h.Attendance.List)
	attendance.Get("/statistics", adminOnly, h.Attendance.Statistics)

	// Inventory
	inventory := protected.Group("/inventory")
	inventory.Get("/items", h.Inventory.GetItems)
	inventory.Post("/items", adminOnly, h.Inventory.CreateItem)
	inventory.Patch("/items/:id", adminOnly, h.Inventory.UpdateItem)
	inventory.Delete("/items/:id", adminOnly, h.Inventory.DeleteItem)
	inventory.Post("/withdraw", h.Inventory.Withdraw)
	inventory.Post("/deposit", adminOnly, h.Inventory.Deposit)
	inventory.Get("/transactions", h.Inventory.GetTransactions)
	inventory.Get("/transactions/me", h.Inventory.GetMyTransactions)
	inventory.Get("/summary", h.Inventory.GetSummary)

	// Announcements
	announcements := protected.Group("/announcements")
	announcements.Get("/active", h.Announcement.GetActive)
	announcements.Get("/", adminOnly, h.Announcement.GetAll)
	announcements.Post("/", adminOnly, h.Announcement.Create)
	announcements.Patch("/:id", adminOnly, h.Announcement.Update)
	announcements.Delete("/:id", adminOnly, h.Announcement.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.GetDashboardStats)
	dashboard.Get("/checkin-status", h.Dashboard.GetCheckinStatus)
	dashboard.Get("/activities", h.Dashboard.GetActivities)
	dashboard.Get("/total-money", h.Dashboard.GetTotalMoney)
	dashboard.Post("/weekly-payment", adminOnly, h.Dashboard.WeeklyPayment)
	dashboard.Post("/total-money", adminOnly, h.Dashboard.AdjustTotalMoney)

	// Logs
	protected.Get("/logs", h.Log.List)
	protected.Get("/logs/me", h.Log.Mine)

	// Admin
	admin := protected.Group("/admin", adminOnly)
	admin.Get("/users", h.User.GetUsers)
	admin.Post("/users", h.User.CreateUser)
	admin.Patch("/users/:id", h.User.UpdateUser)
	admin.Patch("/users/:id/role", h.User.UpdateRole)
	admin.Patch("/users/:id/reset-password", h.User.ResetPassword)
	admin.Patch("/users/:id/money", h.User.AdjustMoney)
	admin.Delete("/users/:id", h.User.DeleteUser)
	admin.Get("/settings", h.Setting.GetSettings)
	admin.Put("/settings", h.Setting.UpsertSetting)
	admin.Get("/gang-wallet", h.GangWallet.GetOverview)
	admin.Post("/gang-wallet/transaction", h.GangWallet.PostTransaction)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
