package service

import (
	"fmt"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultLogTake = 50
	maxLogTake     = 200
	recentFetch    = 10
)

type ActionLogService interface {
	Record(tx *gorm.DB, performerID uuid.UUID, action model.ActionType, details string, payload map[string]interface{}) error
	RecordAfter(performerID uuid.UUID, action model.ActionType, details string, payload map[string]interface{})
	List(viewer Actor, q LogQuery) (*LogPage, error)
	Mine(viewer Actor) ([]model.ActionLogView, error)
	Recent(limit int) ([]Activity, error)
}

// LogQuery mirrors the /logs query string. Take is clamped to [1, 200].
type LogQuery struct {
	Take        int
	Skip        int
	ActionType  string
	ActionTypes string // comma separated
	PerformerID *uuid.UUID
}

type LogPage struct {
	Data []model.ActionLogView `json:"data"`
	Page struct {
		Take    int  `json:"take"`
		Skip    int  `json:"skip"`
		HasMore bool `json:"has_more"`
	} `json:"page"`
}

// Activity is one line of the dashboard feed.
type Activity struct {
	ID     uuid.UUID `json:"id"`
	Action string    `json:"action"`
	User   string    `json:"user"`
	Time   time.Time `json:"time"`
	Status string    `json:"status"`
}

type actionLogService struct {
	repo repository.ActionLogRepository
}

func NewActionLogService(repo repository.ActionLogRepository) ActionLogService {
	return &actionLogService{repo: repo}
}

func (s *actionLogService) Record(tx *gorm.DB, performerID uuid.UUID, action model.ActionType, details string, payload map[string]interface{}) error {
	entry := &model.ActionLog{
		PerformerID: performerID,
		ActionType:  action,
		Details:     details,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
	if err := s.repo.Create(tx, entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"performer_id": performerID,
			"action":       action,
			"error":        err.Error(),
		}).Error("audit write failed")
		return err
	}
	return nil
}

// RecordAfter audits a change that has already been committed. A failed
// write is logged and never fails or rolls back the change.
func (s *actionLogService) RecordAfter(performerID uuid.UUID, action model.ActionType, details string, payload map[string]interface{}) {
	_ = s.Record(nil, performerID, action, details, payload)
}

func clampTake(take int) int {
	switch {
	case take <= 0:
		return defaultLogTake
	case take > maxLogTake:
		return maxLogTake
	}
	return take
}

func splitTypes(q LogQuery) []model.ActionType {
	var out []model.ActionType
	for _, t := range strings.Split(q.ActionTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, model.ActionType(t))
		}
	}
	if len(out) == 0 && q.ActionType != "" {
		out = append(out, model.ActionType(q.ActionType))
	}
	return out
}

// List returns audit rows newest first. Non-admins only ever see their own.
func (s *actionLogService) List(viewer Actor, q LogQuery) (*LogPage, error) {
	take := clampTake(q.Take)
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}

	filter := repository.ActionLogFilter{
		Types: splitTypes(q),
		Skip:  skip,
		Take:  take,
	}
	if !viewer.IsAdmin() {
		filter.PerformerID = &viewer.ID
	} else if q.PerformerID != nil {
		filter.PerformerID = q.PerformerID
	}

	rows, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Display = Describe(&rows[i].ActionLog)
	}

	page := &LogPage{Data: rows}
	page.Page.Take = take
	page.Page.Skip = skip
	page.Page.HasMore = len(rows) == take
	return page, nil
}

func (s *actionLogService) Mine(viewer Actor) ([]model.ActionLogView, error) {
	rows, err := s.repo.List(repository.ActionLogFilter{PerformerID: &viewer.ID, Take: maxLogTake})
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Display = Describe(&rows[i].ActionLog)
	}
	return rows, nil
}

// Recent feeds the dashboard, hiding account administration entries.
func (s *actionLogService) Recent(limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = recentFetch
	}
	rows, err := s.repo.List(repository.ActionLogFilter{
		ExcludeType: model.SensitiveActions,
		Take:        limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Activity, 0, len(rows))
	for i := range rows {
		user := "System"
		if rows[i].PerformerName != nil {
			user = *rows[i].PerformerName
		}
		out = append(out, Activity{
			ID:     rows[i].ID,
			Action: Describe(&rows[i].ActionLog),
			User:   user,
			Time:   rows[i].Timestamp,
			Status: "success",
		})
	}
	return out, nil
}

// Describe renders an audit row for display from its structured payload.
func Describe(l *model.ActionLog) string {
	switch l.ActionType {
	case model.ActionUserWithdraw, model.ActionAdminDeposit:
		name, _ := l.Payload["item_name"].(string)
		qty, ok := payloadInt(l.Payload["qty"])
		if name != "" && ok {
			verb := "Withdrew"
			if l.ActionType == model.ActionAdminDeposit {
				verb = "Deposited"
			}
			return fmt.Sprintf("%s: %s x%d", verb, name, qty)
		}
	case model.ActionUserCheckin:
		if round, _ := l.Payload["round"].(string); round != "" {
			return "Checked in: " + round
		}
		return "Checked in"
	case model.ActionUserLogin:
		return "Logged in"
	}
	if l.Details != "" {
		return l.Details
	}
	return string(l.ActionType)
}

// payloadInt accepts the number shapes a JSON column may decode into.
func payloadInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
