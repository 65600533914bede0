package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
	"gang-admin-api/pkg/validator"

	"gorm.io/gorm"
)

const defaultAttendanceDeadline = "10:00"

type SettingService interface {
	List() ([]model.GlobalSetting, error)
	Upsert(actor Actor, req *UpsertSettingRequest) (*model.GlobalSetting, error)
	Rounds() ([]model.Round, error)
	Deadline() (string, error)
}

type UpsertSettingRequest struct {
	Key         string  `json:"key" validate:"required,max=100"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

type settingService struct {
	repo  repository.SettingRepository
	audit ActionLogService
}

func NewSettingService(repo repository.SettingRepository, audit ActionLogService) SettingService {
	return &settingService{repo: repo, audit: audit}
}

func (s *settingService) List() ([]model.GlobalSetting, error) {
	return s.repo.FindAll()
}

// Upsert validates well-known keys before storing them.
func (s *settingService) Upsert(actor Actor, req *UpsertSettingRequest) (*model.GlobalSetting, error) {
	req.Key = strings.TrimSpace(req.Key)
	if err := validate(req); err != nil {
		return nil, err
	}

	switch req.Key {
	case model.SettingAttendanceRounds:
		rounds, err := ParseRounds(req.Value)
		if err != nil {
			return nil, err
		}
		if err := ValidateRounds(rounds); err != nil {
			return nil, err
		}
	case model.SettingAttendanceDeadline:
		if !validator.IsHHMM(req.Value) {
			return nil, invalid("attendance deadline must be HH:MM")
		}
	}

	setting := &model.GlobalSetting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
		UpdatedAt:   time.Now(),
	}
	if setting.Description == nil {
		if existing, err := s.repo.Get(req.Key); err == nil {
			setting.Description = existing.Description
		}
	}
	if err := s.repo.Upsert(nil, setting); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateSetting,
		fmt.Sprintf("Update setting: %s = %s", req.Key, req.Value),
		map[string]interface{}{"key": req.Key})
	return setting, nil
}

// Rounds returns the configured check-in rounds; none when unset.
func (s *settingService) Rounds() ([]model.Round, error) {
	setting, err := s.repo.Get(model.SettingAttendanceRounds)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseRounds(setting.Value)
}

func (s *settingService) Deadline() (string, error) {
	setting, err := s.repo.Get(model.SettingAttendanceDeadline)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && setting.Value == "") {
		return defaultAttendanceDeadline, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
