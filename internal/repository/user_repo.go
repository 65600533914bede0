package repository

import (
	"time"

	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByPhone(phone string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Count() (int64, error)
	CountWithoutCheckin(day string) (int64, error)
	ListCheckinStatus(day string, offset, limit int) ([]CheckinStatusRow, error)
}

// CheckinStatusRow is one user with their first check-in of the day, if any.
type CheckinStatusRow struct {
	ID              uuid.UUID  `json:"id"`
	InGameName      string     `json:"in_game_name"`
	PhoneNumber     string     `json:"phone_number"`
	Role            model.Role `json:"role"`
	ProfileImageURL *string    `json:"profile_image_url"`
	CheckInTime     *time.Time `json:"check_in_time"`
	Status          *string    `json:"status"`
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("in_game_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := pick(r.db, tx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userRepo) CountWithoutCheckin(day string) (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).
		Where("NOT EXISTS (SELECT 1 FROM attendance_logs a WHERE a.user_id = users.id AND a.attendance_date = ?)", day).
		Count(&n).Error
	return n, err
}

func (r *userRepo) ListCheckinStatus(day string, offset, limit int) ([]CheckinStatusRow, error) {
	var rows []CheckinStatusRow
	err := r.db.Table("users").
		Select(`users.id, users.in_game_name, users.phone_number, users.role, users.profile_image_url,
			first_log.check_in_time, first_log.status`).
		Joins(`LEFT JOIN LATERAL (
			SELECT a.check_in_time, a.status FROM attendance_logs a
			WHERE a.user_id = users.id AND a.attendance_date = ?
			ORDER BY a.check_in_time ASC LIMIT 1
		) first_log ON TRUE`, day).
		Order("users.in_game_name ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
