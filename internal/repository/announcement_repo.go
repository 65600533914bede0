package repository

import (
	"time"

	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(a *model.Announcement) error
	Update(a *model.Announcement) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Announcement, error)
	FindAll() ([]model.Announcement, error)
	FindVisible(at time.Time) ([]model.Announcement, error)
	CountVisible(at time.Time) (int64, error)
}

type announcementRepo struct {
	db *gorm.DB
}

func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db}
}

func (r *announcementRepo) Create(a *model.Announcement) error {
	return r.db.Create(a).Error
}

func (r *announcementRepo) Update(a *model.Announcement) error {
	return r.db.Save(a).Error
}

func (r *announcementRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *announcementRepo) FindByID(id uuid.UUID) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) FindAll() ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func visible(db *gorm.DB, at time.Time) *gorm.DB {
	return db.Where("status = ? AND start_date <= ? AND end_date >= ?", model.AnnouncementActive, at, at)
}

// FindVisible lists active announcements inside their window, urgent first.
func (r *announcementRepo) FindVisible(at time.Time) ([]model.Announcement, error) {
	var list []model.Announcement
	err := visible(r.db, at).
		Order("CASE WHEN priority = 'URGENT' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *announcementRepo) CountVisible(at time.Time) (int64, error) {
	var n int64
	err := visible(r.db.Model(&model.Announcement{}), at).Count(&n).Error
	return n, err
}
