package repository

import (
	"gang-admin-api/internal/model"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Item{},
		&model.InventoryTransaction{},
		&model.AttendanceLog{},
		&model.GlobalSetting{},
		&model.Announcement{},
		&model.GangWallet{},
		&model.GangTransaction{},
		&model.ActionLog{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
