package main

import (
	"flag"
	"os"

	"gang-admin-api/internal/config"
	"gang-admin-api/internal/repository"
	"gang-admin-api/pkg/database"
	"gang-admin-api/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Resets one member's password to DEFAULT_RESET_PASSWORD.
//
//	go run ./cmd/reset-password -phone 0812345678
func main() {
	phone := flag.String("phone", os.Getenv("RESET_PHONE"), "phone number of the user to reset")
	flag.Parse()

	// 1. Load Config
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if *phone == "" {
		logrus.Fatal("a phone number is required (-phone or RESET_PHONE)")
	}

	// 2. Setup Database
	db, err := database.Connect(database.Options{
		DSN:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		TimeZone: cfg.TimeZone,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// 3. Find User
	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByPhone(*phone)
	if err != nil {
		logrus.Fatalf("user %s not found: %v", *phone, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultResetPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}

	// 5. Update
	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		logrus.Fatalf("failed to update password: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"phone":   user.PhoneNumber,
		"user_id": user.ID,
	}).Info("password reset to the configured default")
}
