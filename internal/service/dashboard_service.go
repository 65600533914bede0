package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultCheckinPageSize = 10
	maxCheckinPageSize     = 100
	activityFeedSize       = 10
	moneyPoolDescription   = "Total money pool"
)

type DashboardService interface {
	Stats() (*DashboardStats, error)
	CheckinStatus(page, limit int) (*CheckinStatusPage, error)
	Activities() ([]Activity, error)
	TotalMoney() (*TotalMoney, error)
	WeeklyPayment(actor Actor, req *WeeklyPaymentRequest) (*MoneyPoolChange, error)
	AdjustTotalMoney(actor Actor, req *TotalMoneyRequest) (*MoneyPoolChange, error)
}

type DashboardStats struct {
	UsersTotal          int64  `json:"users_total"`
	CheckinsToday       int64  `json:"checkins_today"`
	TransactionsToday   int64  `json:"transactions_today"`
	ActiveAnnouncements int64  `json:"active_announcements"`
	UsersWithoutCheckin int64  `json:"users_without_checkin"`
	CheckinRate         int    `json:"checkin_rate"`
	AttendanceDeadline  string `json:"attendance_deadline"`
	GangBalance         int64  `json:"gang_balance"`
}

type UserCheckinStatus struct {
	repository.CheckinStatusRow
	HasCheckedIn bool `json:"has_checked_in"`
}

type CheckinStatusPage struct {
	Users      []UserCheckinStatus `json:"users"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int   `json:"total_pages"`
		TotalUsers int64 `json:"total_users"`
	} `json:"pagination"`
	Summary struct {
		TotalUsers   int64 `json:"total_users"`
		CheckedIn    int64 `json:"checked_in"`
		NotCheckedIn int64 `json:"not_checked_in"`
		CheckinRate  int   `json:"checkin_rate"`
	} `json:"summary"`
}

type TotalMoney struct {
	TotalMoney  int64      `json:"total_money"`
	LastUpdated *time.Time `json:"last_updated"`
}

type WeeklyPaymentRequest struct {
	Amount int64  `json:"amount" validate:"gt=0"`
	Reason string `json:"reason"`
}

type TotalMoneyRequest struct {
	Amount    int64          `json:"amount" validate:"gt=0"`
	Operation MoneyOperation `json:"operation" validate:"required,oneof=add subtract"`
}

type MoneyPoolChange struct {
	PreviousTotal int64          `json:"previous_total"`
	NewTotal      int64          `json:"new_total"`
	Amount        int64          `json:"amount"`
	Operation     MoneyOperation `json:"operation"`
	Message       string         `json:"message"`
}

type dashboardService struct {
	userRepo         repository.UserRepository
	attendanceRepo   repository.AttendanceRepository
	invTxRepo        repository.InventoryTxRepository
	announcementRepo repository.AnnouncementRepository
	walletRepo       repository.GangWalletRepository
	settingRepo      repository.SettingRepository
	settings         SettingService
	txRunner         repository.TxRunner
	audit            ActionLogService
	loc              *time.Location
	now              func() time.Time
}

func NewDashboardService(
	userRepo repository.UserRepository,
	attendanceRepo repository.AttendanceRepository,
	invTxRepo repository.InventoryTxRepository,
	announcementRepo repository.AnnouncementRepository,
	walletRepo repository.GangWalletRepository,
	settingRepo repository.SettingRepository,
	settings SettingService,
	txRunner repository.TxRunner,
	audit ActionLogService,
	loc *time.Location,
) DashboardService {
	return &dashboardService{
		userRepo:         userRepo,
		attendanceRepo:   attendanceRepo,
		invTxRepo:        invTxRepo,
		announcementRepo: announcementRepo,
		walletRepo:       walletRepo,
		settingRepo:      settingRepo,
		settings:         settings,
		txRunner:         txRunner,
		audit:            audit,
		loc:              loc,
		now:              time.Now,
	}
}

// Rate returns part/total as a rounded percentage, 0 when total is 0.
func Rate(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (s *dashboardService) Stats() (*DashboardStats, error) {
	now := s.now()
	day := model.DayKey(now, s.loc)
	from, to := dayBounds(now, s.loc)

	var (
		stats DashboardStats
		err   error
	)
	if stats.UsersTotal, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.CheckinsToday, err = s.attendanceRepo.CountOnDay(day); err != nil {
		return nil, err
	}
	if stats.TransactionsToday, err = s.invTxRepo.CountBetween(from, to); err != nil {
		return nil, err
	}
	if stats.ActiveAnnouncements, err = s.announcementRepo.CountVisible(now); err != nil {
		return nil, err
	}
	if stats.UsersWithoutCheckin, err = s.userRepo.CountWithoutCheckin(day); err != nil {
		return nil, err
	}
	if stats.AttendanceDeadline, err = s.settings.Deadline(); err != nil {
		return nil, err
	}
	if stats.GangBalance, err = s.walletRepo.CurrentBalance(nil); err != nil {
		return nil, err
	}
	stats.CheckinRate = Rate(stats.CheckinsToday, stats.UsersTotal)
	return &stats, nil
}

// CheckinStatus pages through every user with their first check-in today.
func (s *dashboardService) CheckinStatus(page, limit int) (*CheckinStatusPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultCheckinPageSize
	}
	if limit > maxCheckinPageSize {
		limit = maxCheckinPageSize
	}
	day := model.DayKey(s.now(), s.loc)

	total, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	rows, err := s.userRepo.ListCheckinStatus(day, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	checkedIn, err := s.attendanceRepo.CountOnDay(day)
	if err != nil {
		return nil, err
	}

	out := &CheckinStatusPage{Users: make([]UserCheckinStatus, 0, len(rows))}
	for _, r := range rows {
		out.Users = append(out.Users, UserCheckinStatus{CheckinStatusRow: r, HasCheckedIn: r.CheckInTime != nil})
	}
	out.Pagination.Page = page
	out.Pagination.Limit = limit
	out.Pagination.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	out.Pagination.TotalUsers = total
	out.Summary.TotalUsers = total
	out.Summary.CheckedIn = checkedIn
	out.Summary.NotCheckedIn = total - checkedIn
	if out.Summary.NotCheckedIn < 0 {
		out.Summary.NotCheckedIn = 0
	}
	out.Summary.CheckinRate = Rate(checkedIn, total)
	return out, nil
}

func (s *dashboardService) Activities() ([]Activity, error) {
	return s.audit.Recent(activityFeedSize)
}

func parsePool(setting *model.GlobalSetting) int64 {
	if setting == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(setting.Value), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *dashboardService) TotalMoney() (*TotalMoney, error) {
	setting, err := s.settingRepo.Get(model.SettingTotalMoneyPool)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &TotalMoney{}, nil
	}
	if err != nil {
		return nil, err
	}
	at := setting.UpdatedAt
	return &TotalMoney{TotalMoney: parsePool(setting), LastUpdated: &at}, nil
}

// changePool rewrites total_money_pool under a row lock and audits the change
// in the same transaction.
func (s *dashboardService) changePool(actor Actor, op MoneyOperation, amount int64, action model.ActionType, note string) (*MoneyPoolChange, error) {
	var change *MoneyPoolChange
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		current, err := s.settingRepo.GetForUpdate(tx, model.SettingTotalMoneyPool)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		before := parsePool(current)
		after, err := ApplyMoney(before, op, amount)
		if err != nil {
			return err
		}

		desc := moneyPoolDescription
		if err := s.settingRepo.Upsert(tx, &model.GlobalSetting{
			Key:         model.SettingTotalMoneyPool,
			Value:       strconv.FormatInt(after, 10),
			Description: &desc,
			UpdatedAt:   s.now(),
		}); err != nil {
			return err
		}

		details := fmt.Sprintf("%s total money: %d (%d -> %d)", op, amount, before, after)
		if note != "" {
			details += " - " + note
		}
		change = &MoneyPoolChange{
			PreviousTotal: before,
			NewTotal:      after,
			Amount:        amount,
			Operation:     op,
			Message:       fmt.Sprintf("total money is now %d", after),
		}
		return s.audit.Record(tx, actor.ID, action, details, map[string]interface{}{
			"operation":      string(op),
			"amount":         amount,
			"previous_total": before,
			"new_total":      after,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":     actor.ID,
		"operation": op,
		"amount":    amount,
		"total":     change.NewTotal,
	}).Info("money pool updated")
	return change, nil
}

func (s *dashboardService) WeeklyPayment(actor Actor, req *WeeklyPaymentRequest) (*MoneyPoolChange, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "weekly payment"
	}
	return s.changePool(actor, MoneyAdd, req.Amount, model.ActionAdminWeeklyPayment, reason)
}

func (s *dashboardService) AdjustTotalMoney(actor Actor, req *TotalMoneyRequest) (*MoneyPoolChange, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.changePool(actor, req.Operation, req.Amount, model.ActionAdminTotalMoneyUpdate, "")
}
