package repository

import (
	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(log *model.AttendanceLog) error
	FindOne(userID uuid.UUID, session int, day string) (*model.AttendanceLog, error)
	ListByUserDay(userID uuid.UUID, day string) ([]model.AttendanceLog, error)
	ListByUser(userID uuid.UUID, limit int) ([]model.AttendanceLog, error)
	List(filter AttendanceFilter) ([]model.AttendanceLog, error)
	ListBetweenDays(fromDay, toDay string) ([]model.AttendanceLog, error)
	UpdateStatus(id uuid.UUID, status model.AttendanceStatus) error
	DeleteOne(userID uuid.UUID, session int, day string) (int64, error)
	CountOnDay(day string) (int64, error)
	DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error)
}

// AttendanceFilter uses "YYYY-MM-DD" day keys. Day wins over the range.
type AttendanceFilter struct {
	Day     string
	FromDay string
	ToDay   string
	Session *int
	Limit   int
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db}
}

func (r *attendanceRepo) Create(log *model.AttendanceLog) error {
	return r.db.Omit("User").Create(log).Error
}

func (r *attendanceRepo) FindOne(userID uuid.UUID, session int, day string) (*model.AttendanceLog, error) {
	var log model.AttendanceLog
	err := r.db.Where("user_id = ? AND session = ? AND attendance_date = ?", userID, session, day).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *attendanceRepo) ListByUserDay(userID uuid.UUID, day string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := r.db.Where("user_id = ? AND attendance_date = ?", userID, day).
		Order("session ASC").
		Find(&logs).Error
	return logs, err
}

func (r *attendanceRepo) ListByUser(userID uuid.UUID, limit int) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := r.db.Where("user_id = ?", userID).
		Order("check_in_time DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *attendanceRepo) List(filter AttendanceFilter) ([]model.AttendanceLog, error) {
	q := r.db.Preload("User")
	switch {
	case filter.Day != "":
		q = q.Where("attendance_date = ?", filter.Day)
	default:
		if filter.FromDay != "" {
			q = q.Where("attendance_date >= ?", filter.FromDay)
		}
		if filter.ToDay != "" {
			q = q.Where("attendance_date <= ?", filter.ToDay)
		}
	}
	if filter.Session != nil {
		q = q.Where("session = ?", *filter.Session)
	}

	var logs []model.AttendanceLog
	err := q.Order("check_in_time DESC").Limit(filter.Limit).Find(&logs).Error
	return logs, err
}

func (r *attendanceRepo) ListBetweenDays(fromDay, toDay string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := r.db.Select("user_id", "status").
		Where("attendance_date BETWEEN ? AND ?", fromDay, toDay).
		Find(&logs).Error
	return logs, err
}

func (r *attendanceRepo) UpdateStatus(id uuid.UUID, status model.AttendanceStatus) error {
	return r.db.Model(&model.AttendanceLog{}).Where("id = ?", id).Update("status", status).Error
}

func (r *attendanceRepo) DeleteOne(userID uuid.UUID, session int, day string) (int64, error) {
	res := r.db.Where("user_id = ? AND session = ? AND attendance_date = ?", userID, session, day).
		Delete(&model.AttendanceLog{})
	return res.RowsAffected, res.Error
}

func (r *attendanceRepo) CountOnDay(day string) (int64, error) {
	var n int64
	err := r.db.Model(&model.AttendanceLog{}).Where("attendance_date = ?", day).Count(&n).Error
	return n, err
}

func (r *attendanceRepo) DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	res := pick(r.db, tx).Where("user_id = ?", userID).Delete(&model.AttendanceLog{})
	return res.RowsAffected, res.Error
}
