package repository

import (
	"gang-admin-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() ([]model.GlobalSetting, error)
	Get(key string) (*model.GlobalSetting, error)
	GetForUpdate(tx *gorm.DB, key string) (*model.GlobalSetting, error)
	Upsert(tx *gorm.DB, setting *model.GlobalSetting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll() ([]model.GlobalSetting, error) {
	var settings []model.GlobalSetting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) Get(key string) (*model.GlobalSetting, error) {
	var s model.GlobalSetting
	if err := r.db.First(&s, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetForUpdate reads key with a row lock held until tx ends.
func (r *settingRepo) GetForUpdate(tx *gorm.DB, key string) (*model.GlobalSetting, error) {
	var s model.GlobalSetting
	err := pick(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserts the setting or overwrites value, description and updated_at.
func (r *settingRepo) Upsert(tx *gorm.DB, setting *model.GlobalSetting) error {
	return pick(r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
}
