package service

import (
	"errors"
	"fmt"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
	"gang-admin-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	dayLayout         = "2006-01-02"
	myHistoryLimit    = 60
	attendanceListMax = 1000
	statsDefaultDays  = 30
)

type AttendanceService interface {
	Today(actor Actor) (*TodayStatus, error)
	CheckIn(actor Actor) (*CheckInResult, error)
	AdminCheckIn(actor Actor, req *AdminCheckInRequest) (*AdminCheckInResult, error)
	MyHistory(actor Actor) ([]model.AttendanceLog, error)
	List(q AttendanceQuery) ([]model.AttendanceLog, error)
	Statistics(startDay, endDay string) ([]model.UserAttendanceStats, error)
}

type TodayStatus struct {
	Sessions       map[int]*model.AttendanceLog `json:"sessions"`
	CurrentSession *int                         `json:"current_session"`
	TotalChecked   int                          `json:"total_checked"`
	RoundsConfig   []model.Round                `json:"rounds_config"`
}

type CheckInResult struct {
	Attendance *model.AttendanceLog `json:"attendance"`
	Round      model.Round          `json:"round"`
	Message    string               `json:"message"`
}

type AdminCheckInRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"uuid_required"`
	Session int       `json:"session" validate:"gt=0"`
	Status  string    `json:"status"`
	Date    string    `json:"date"`
}

type AdminCheckInResult struct {
	Cleared    bool                 `json:"cleared"`
	Attendance *model.AttendanceLog `json:"attendance,omitempty"`
	Message    string               `json:"message"`
}

// AttendanceQuery uses YYYY-MM-DD days. Day takes precedence over the range.
type AttendanceQuery struct {
	Day      string
	StartDay string
	EndDay   string
	Session  *int
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	settings       SettingService
	audit          ActionLogService
	wsHub          *ws.Hub
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	settings SettingService,
	audit ActionLogService,
	hub *ws.Hub,
	loc *time.Location,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		settings:       settings,
		audit:          audit,
		wsHub:          hub,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *attendanceService) Today(actor Actor) (*TodayStatus, error) {
	now := s.now()
	rounds, err := s.settings.Rounds()
	if err != nil {
		return nil, err
	}
	logs, err := s.attendanceRepo.ListByUserDay(actor.ID, model.DayKey(now, s.loc))
	if err != nil {
		return nil, err
	}

	sessions := make(map[int]*model.AttendanceLog, len(rounds))
	for _, r := range rounds {
		sessions[r.ID] = nil
	}
	for i := range logs {
		sessions[logs[i].Session] = &logs[i]
	}

	status := &TodayStatus{
		Sessions:     sessions,
		TotalChecked: len(logs),
		RoundsConfig: rounds,
	}
	if current := ResolveRound(now, s.loc, rounds); current != nil {
		id := current.ID
		status.CurrentSession = &id
	}
	return status, nil
}

// CheckIn records the caller as present for the round that is open right now.
func (s *attendanceService) CheckIn(actor Actor) (*CheckInResult, error) {
	now := s.now()
	rounds, err := s.settings.Rounds()
	if err != nil {
		return nil, err
	}
	round := ResolveRound(now, s.loc, rounds)
	if round == nil {
		return nil, ErrOutsideRound
	}
	day := model.DayKey(now, s.loc)

	_, err = s.attendanceRepo.FindOne(actor.ID, round.ID, day)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCheckedIn, round.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &model.AttendanceLog{
		UserID:         actor.ID,
		Session:        round.ID,
		Status:         model.StatusPresent,
		CheckInTime:    now,
		AttendanceDate: day,
	}
	if err := s.attendanceRepo.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyCheckedIn, round.Name)
		}
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionUserCheckin,
		fmt.Sprintf("Check-in: %s (%s)", round.Name, actor.Name),
		map[string]interface{}{"round": round.Name, "session": round.ID, "day": day})

	s.wsHub.Publish(ws.EventAttendance, "checkin", fmt.Sprintf("%s checked in for %s", actor.Name, round.Name),
		map[string]interface{}{"user_id": actor.ID, "session": round.ID, "status": entry.Status})

	return &CheckInResult{
		Attendance: entry,
		Round:      *round,
		Message:    fmt.Sprintf("Checked in for %s", round.Name),
	}, nil
}

func (s *attendanceService) parseDay(day string) (string, error) {
	t, err := time.ParseInLocation(dayLayout, day, s.loc)
	if err != nil {
		return "", invalid("invalid date format, use YYYY-MM-DD")
	}
	return t.Format(dayLayout), nil
}

// AdminCheckIn overrides one user's status for one round and day.
// An empty status or "-" clears the entry.
func (s *attendanceService) AdminCheckIn(actor Actor, req *AdminCheckInRequest) (*AdminCheckInResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	now := s.now()
	day := model.DayKey(now, s.loc)
	at := now
	if req.Date != "" {
		parsed, err := s.parseDay(req.Date)
		if err != nil {
			return nil, err
		}
		if parsed != day {
			at, _ = time.ParseInLocation(dayLayout, parsed, s.loc)
		}
		day = parsed
	}

	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	rounds, err := s.settings.Rounds()
	if err != nil {
		return nil, err
	}
	roundName := RoundName(rounds, req.Session)
	payload := map[string]interface{}{
		"user_id": user.ID.String(),
		"session": req.Session,
		"round":   roundName,
		"day":     day,
		"status":  req.Status,
	}

	status := model.AttendanceStatus(req.Status)
	if status == "" || status == model.StatusExcused {
		if _, err := s.attendanceRepo.DeleteOne(user.ID, req.Session, day); err != nil {
			return nil, err
		}
		s.audit.RecordAfter(actor.ID, model.ActionAdminCheckin,
			fmt.Sprintf("Clear attendance: %s %s %s", user.InGameName, roundName, day), payload)
		s.publishOverride(user, req.Session, "")
		return &AdminCheckInResult{Cleared: true, Message: "Cleared attendance"}, nil
	}
	if !status.Valid() {
		return nil, invalid("status must be one of O, L, A or -")
	}

	existing, err := s.attendanceRepo.FindOne(user.ID, req.Session, day)
	switch {
	case err == nil:
		if err := s.attendanceRepo.UpdateStatus(existing.ID, status); err != nil {
			return nil, err
		}
		existing.Status = status
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = &model.AttendanceLog{
			UserID:         user.ID,
			Session:        req.Session,
			Status:         status,
			CheckInTime:    at,
			AttendanceDate: day,
		}
		if err := s.attendanceRepo.Create(existing); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminCheckin,
		fmt.Sprintf("Set attendance: %s %s %s = %s", user.InGameName, roundName, day, status), payload)
	s.publishOverride(user, req.Session, status)

	return &AdminCheckInResult{Attendance: existing, Message: "Updated attendance"}, nil
}

func (s *attendanceService) publishOverride(user *model.User, session int, status model.AttendanceStatus) {
	s.wsHub.Publish(ws.EventAttendance, "admin_checkin", "",
		map[string]interface{}{"user_id": user.ID, "session": session, "status": status})
}

func (s *attendanceService) MyHistory(actor Actor) ([]model.AttendanceLog, error) {
	return s.attendanceRepo.ListByUser(actor.ID, myHistoryLimit)
}

func (s *attendanceService) List(q AttendanceQuery) ([]model.AttendanceLog, error) {
	filter := repository.AttendanceFilter{Session: q.Session, Limit: attendanceListMax}
	var err error
	if q.Day != "" {
		if filter.Day, err = s.parseDay(q.Day); err != nil {
			return nil, err
		}
	} else {
		if q.StartDay != "" {
			if filter.FromDay, err = s.parseDay(q.StartDay); err != nil {
				return nil, err
			}
		}
		if q.EndDay != "" {
			if filter.ToDay, err = s.parseDay(q.EndDay); err != nil {
				return nil, err
			}
		}
	}
	return s.attendanceRepo.List(filter)
}

// Statistics counts statuses per user between two days; the default window
// is the 30 days up to today.
func (s *attendanceService) Statistics(startDay, endDay string) ([]model.UserAttendanceStats, error) {
	end := model.DayKey(s.now(), s.loc)
	var err error
	if endDay != "" {
		if end, err = s.parseDay(endDay); err != nil {
			return nil, err
		}
	}
	start := ""
	if startDay != "" {
		if start, err = s.parseDay(startDay); err != nil {
			return nil, err
		}
	} else {
		endT, _ := time.ParseInLocation(dayLayout, end, s.loc)
		start = endT.AddDate(0, 0, -statsDefaultDays).Format(dayLayout)
	}
	if start > end {
		return nil, invalid("start date is after end date")
	}

	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	logs, err := s.attendanceRepo.ListBetweenDays(start, end)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"from": start, "to": end, "rows": len(logs)}).Debug("attendance statistics")
	return AggregateAttendance(users, logs), nil
}

// AggregateAttendance builds one stats row per user, in the users' order.
func AggregateAttendance(users []model.User, logs []model.AttendanceLog) []model.UserAttendanceStats {
	counts := make(map[uuid.UUID]*model.AttendanceCounts, len(users))
	out := make([]model.UserAttendanceStats, len(users))
	for i := range users {
		out[i].User = users[i].ToSummary()
		counts[users[i].ID] = &out[i].Stats
	}
	for _, l := range logs {
		if c, ok := counts[l.UserID]; ok {
			c.Add(l.Status)
		}
	}
	return out
}
