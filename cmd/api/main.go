package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gang-admin-api/internal/config"
	"gang-admin-api/internal/handler"
	"gang-admin-api/internal/presence"
	"gang-admin-api/internal/repository"
	"gang-admin-api/internal/scheduler"
	"gang-admin-api/internal/service"
	"gang-admin-api/internal/ws"
	"gang-admin-api/pkg/database"
	"gang-admin-api/pkg/jwt"
	"gang-admin-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	loc := cfg.Location()

	// 2. Setup Database
	db, err := database.Connect(database.Options{
		DSN:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		TimeZone: cfg.TimeZone,
		Debug:    cfg.DBDebug,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	// Auto Migrate (use a dedicated migration tool for production schemas)
	if err := repository.AutoMigrate(db); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}

	// 3. Seed first-run admin and settings
	seed(db, cfg)

	// 4. Presence backend
	var presenceStore presence.Store
	var redisClient *redis.Client
	switch cfg.PresenceBackend {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		presenceStore = presence.NewRedisStore(redisClient, cfg.PresenceTimeout)
	default:
		presenceStore = presence.NewMemoryStore(cfg.PresenceTimeout)
	}
	logrus.WithField("backend", cfg.PresenceBackend).Info("presence store ready")

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	txRunner := repository.NewTxRunner(db)

	userRepo := repository.NewUserRepo(db)
	itemRepo := repository.NewItemRepo(db)
	invTxRepo := repository.NewInventoryTxRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	announcementRepo := repository.NewAnnouncementRepo(db)
	walletRepo := repository.NewGangWalletRepo(db)
	actionLogRepo := repository.NewActionLogRepo(db)

	auditService := service.NewActionLogService(actionLogRepo)
	settingService := service.NewSettingService(settingRepo, auditService)
	authService := service.NewAuthService(userRepo, tokens, auditService)
	profileService := service.NewProfileService(userRepo, auditService)
	userService := service.NewUserService(userRepo, attendanceRepo, invTxRepo, txRunner, auditService, cfg.DefaultResetPassword)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, settingService, auditService, wsHub, loc)
	invService := service.NewInventoryService(itemRepo, invTxRepo, txRunner, auditService, wsHub, loc)
	walletService := service.NewGangWalletService(walletRepo, txRunner, auditService, wsHub)
	announcementService := service.NewAnnouncementService(announcementRepo, auditService, wsHub)
	dashService := service.NewDashboardService(
		userRepo, attendanceRepo, invTxRepo, announcementRepo, walletRepo, settingRepo,
		settingService, txRunner, auditService, loc,
	)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Me:           handler.NewMeHandler(profileService),
		User:         handler.NewUserHandler(userService),
		Dashboard:    handler.NewDashboardHandler(dashService),
		Inventory:    handler.NewInventoryHandler(invService),
		Attendance:   handler.NewAttendanceHandler(attendanceService, userService),
		GangWallet:   handler.NewGangWalletHandler(walletService),
		Announcement: handler.NewAnnouncementHandler(announcementService),
		Setting:      handler.NewSettingHandler(settingService),
		Presence:     handler.NewPresenceHandler(presenceStore, wsHub),
		Log:          handler.NewLogHandler(auditService),
	}

	// 7. Background jobs
	jobs := scheduler.NewScheduler(presenceStore, wsHub, loc)
	jobs.Start()

	// 8. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Gang Admin API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	handler.RegisterRoutes(app, handlers, tokens, wsHub)

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	jobs.Stop()
	if err := app.Shutdown(); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logrus.Info("Server exited")
}
