package repository

import (
	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionLogRepository interface {
	Create(tx *gorm.DB, log *model.ActionLog) error
	List(filter ActionLogFilter) ([]model.ActionLogView, error)
}

// ActionLogFilter selects audit rows newest first.
type ActionLogFilter struct {
	PerformerID *uuid.UUID
	Types       []model.ActionType
	ExcludeType []model.ActionType
	Skip        int
	Take        int
}

type actionLogRepo struct {
	db *gorm.DB
}

func NewActionLogRepo(db *gorm.DB) ActionLogRepository {
	return &actionLogRepo{db}
}

func (r *actionLogRepo) Create(tx *gorm.DB, log *model.ActionLog) error {
	return pick(r.db, tx).Create(log).Error
}

func (r *actionLogRepo) List(filter ActionLogFilter) ([]model.ActionLogView, error) {
	q := r.db.Table("action_logs").
		Select("action_logs.*, users.in_game_name AS performer_name, users.role AS performer_role").
		Joins("LEFT JOIN users ON users.id = action_logs.performer_id")
	if filter.PerformerID != nil {
		q = q.Where("action_logs.performer_id = ?", *filter.PerformerID)
	}
	if len(filter.Types) > 0 {
		q = q.Where("action_logs.action_type IN ?", filter.Types)
	}
	if len(filter.ExcludeType) > 0 {
		q = q.Where("action_logs.action_type NOT IN ?", filter.ExcludeType)
	}

	var rows []model.ActionLogView
	err := q.Order("action_logs.timestamp DESC").
		Offset(filter.Skip).
		Limit(filter.Take).
		Scan(&rows).Error
	return rows, err
}
