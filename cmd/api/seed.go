package main

import (
	"errors"

	"gang-admin-api/internal/config"
	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultRounds = `[{"id":1,"name":"Morning","start_time":"08:00","end_time":"10:00"}]`

// defaultSettings are inserted only when the key is missing.
func defaultSettings() []model.GlobalSetting {
	desc := func(s string) *string { return &s }
	return []model.GlobalSetting{
		{Key: model.SettingAttendanceRounds, Value: defaultRounds, Description: desc("Daily check-in rounds (JSON)")},
		{Key: model.SettingAttendanceDeadline, Value: "10:00", Description: desc("Check-in deadline shown on the dashboard")},
		{Key: model.SettingTotalMoneyPool, Value: "0", Description: desc("Total money pool")},
	}
}

// seed creates the first admin (when SEED_ADMIN_PHONE is set) and missing settings.
func seed(db *gorm.DB, cfg *config.Config) {
	settings := defaultSettings()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
		logrus.Warnf("failed to seed settings: %v", err)
	}

	if cfg.SeedAdminPhone == "" {
		return
	}
	userRepo := repository.NewUserRepo(db)
	_, err := userRepo.FindByPhone(cfg.SeedAdminPhone)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.Warnf("failed to look up seed admin: %v", err)
		return
	}

	password := cfg.SeedAdminPassword
	if password == "" {
		password = cfg.DefaultResetPassword
	}
	admin := &model.User{
		PhoneNumber: cfg.SeedAdminPhone,
		InGameName:  "Administrator",
		Role:        model.RoleAdmin,
	}
	if err := admin.SetPassword(password); err != nil {
		logrus.Warnf("failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		logrus.Warnf("failed to create admin user: %v", err)
		return
	}
	logrus.WithField("phone", admin.PhoneNumber).Info("admin user created")
}
