package service

import (
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeTx runs the callback without a database; repository mocks ignore tx.
type fakeTx struct{}

func (fakeTx) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByPhone(phone string) (*model.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserRepo) FindAll() ([]model.User, error) {
	args := m.Called()
	return args.Get(0).([]model.User), args.Error(1)
}
func (m *MockUserRepo) Create(user *model.User) error {
	return m.Called(user).Error(0)
}
func (m *MockUserRepo) Update(user *model.User) error {
	return m.Called(user).Error(0)
}
func (m *MockUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}
func (m *MockUserRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return m.Called(tx, id).Error(0)
}
func (m *MockUserRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) CountWithoutCheckin(day string) (int64, error) {
	args := m.Called(day)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) ListCheckinStatus(day string, offset, limit int) ([]repository.CheckinStatusRow, error) {
	args := m.Called(day, offset, limit)
	return args.Get(0).([]repository.CheckinStatusRow), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(item *model.Item) error {
	return m.Called(item).Error(0)
}
func (m *MockItemRepo) FindAll() ([]model.Item, error) {
	args := m.Called()
	return args.Get(0).([]model.Item), args.Error(1)
}
func (m *MockItemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}
func (m *MockItemRepo) FindByName(name string) (*model.Item, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}
func (m *MockItemRepo) Update(item *model.Item) error {
	return m.Called(item).Error(0)
}
func (m *MockItemRepo) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}
func (m *MockItemRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}
func (m *MockItemRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, at time.Time) (bool, error) {
	args := m.Called(tx, id, delta, at)
	return args.Bool(0), args.Error(1)
}

// MockInventoryTxRepo
type MockInventoryTxRepo struct {
	mock.Mock
}

func (m *MockInventoryTxRepo) Create(tx *gorm.DB, t *model.InventoryTransaction) error {
	return m.Called(tx, t).Error(0)
}
func (m *MockInventoryTxRepo) List(filter repository.InventoryTxFilter) ([]model.InventoryTransaction, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.InventoryTransaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockInventoryTxRepo) ListByUser(userID uuid.UUID, limit int) ([]model.InventoryTransaction, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]model.InventoryTransaction), args.Error(1)
}
func (m *MockInventoryTxRepo) ListBetween(from, to time.Time) ([]model.InventoryTransaction, error) {
	args := m.Called(from, to)
	return args.Get(0).([]model.InventoryTransaction), args.Error(1)
}
func (m *MockInventoryTxRepo) CountBetween(from, to time.Time) (int64, error) {
	args := m.Called(from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockInventoryTxRepo) CountByItem(itemID uuid.UUID) (int64, error) {
	args := m.Called(itemID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockInventoryTxRepo) DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	args := m.Called(tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttendanceRepo
type MockAttendanceRepo struct {
	mock.Mock
}

func (m *MockAttendanceRepo) Create(log *model.AttendanceLog) error {
	return m.Called(log).Error(0)
}
func (m *MockAttendanceRepo) FindOne(userID uuid.UUID, session int, day string) (*model.AttendanceLog, error) {
	args := m.Called(userID, session, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) ListByUserDay(userID uuid.UUID, day string) ([]model.AttendanceLog, error) {
	args := m.Called(userID, day)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) ListByUser(userID uuid.UUID, limit int) ([]model.AttendanceLog, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) List(filter repository.AttendanceFilter) ([]model.AttendanceLog, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) ListBetweenDays(fromDay, toDay string) ([]model.AttendanceLog, error) {
	args := m.Called(fromDay, toDay)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) UpdateStatus(id uuid.UUID, status model.AttendanceStatus) error {
	return m.Called(id, status).Error(0)
}
func (m *MockAttendanceRepo) DeleteOne(userID uuid.UUID, session int, day string) (int64, error) {
	args := m.Called(userID, session, day)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAttendanceRepo) CountOnDay(day string) (int64, error) {
	args := m.Called(day)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAttendanceRepo) DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	args := m.Called(tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingRepo
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) FindAll() ([]model.GlobalSetting, error) {
	args := m.Called()
	return args.Get(0).([]model.GlobalSetting), args.Error(1)
}
func (m *MockSettingRepo) Get(key string) (*model.GlobalSetting, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GlobalSetting), args.Error(1)
}
func (m *MockSettingRepo) GetForUpdate(tx *gorm.DB, key string) (*model.GlobalSetting, error) {
	args := m.Called(tx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GlobalSetting), args.Error(1)
}
func (m *MockSettingRepo) Upsert(tx *gorm.DB, setting *model.GlobalSetting) error {
	return m.Called(tx, setting).Error(0)
}

// MockGangWalletRepo
type MockGangWalletRepo struct {
	mock.Mock
}

func (m *MockGangWalletRepo) Lock(tx *gorm.DB) (*model.GangWallet, error) {
	args := m.Called(tx)
	if fn, ok := args.Get(0).(func(*gorm.DB) *model.GangWallet); ok {
		return fn(tx), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GangWallet), args.Error(1)
}
func (m *MockGangWalletRepo) CurrentBalance(tx *gorm.DB) (int64, error) {
	args := m.Called(tx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockGangWalletRepo) Append(tx *gorm.DB, t *model.GangTransaction) error {
	return m.Called(tx, t).Error(0)
}
func (m *MockGangWalletRepo) SetBalance(tx *gorm.DB, balance int64, at time.Time) error {
	return m.Called(tx, balance, at).Error(0)
}
func (m *MockGangWalletRepo) Recent(limit int) ([]model.GangTransactionView, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.GangTransactionView), args.Error(1)
}

// MockAnnouncementRepo
type MockAnnouncementRepo struct {
	mock.Mock
}

func (m *MockAnnouncementRepo) Create(a *model.Announcement) error {
	return m.Called(a).Error(0)
}
func (m *MockAnnouncementRepo) Update(a *model.Announcement) error {
	return m.Called(a).Error(0)
}
func (m *MockAnnouncementRepo) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}
func (m *MockAnnouncementRepo) FindByID(id uuid.UUID) (*model.Announcement, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Announcement), args.Error(1)
}
func (m *MockAnnouncementRepo) FindAll() ([]model.Announcement, error) {
	args := m.Called()
	return args.Get(0).([]model.Announcement), args.Error(1)
}
func (m *MockAnnouncementRepo) FindVisible(at time.Time) ([]model.Announcement, error) {
	args := m.Called(at)
	return args.Get(0).([]model.Announcement), args.Error(1)
}
func (m *MockAnnouncementRepo) CountVisible(at time.Time) (int64, error) {
	args := m.Called(at)
	return args.Get(0).(int64), args.Error(1)
}

// MockActionLogRepo
type MockActionLogRepo struct {
	mock.Mock
}

func (m *MockActionLogRepo) Create(tx *gorm.DB, log *model.ActionLog) error {
	return m.Called(tx, log).Error(0)
}
func (m *MockActionLogRepo) List(filter repository.ActionLogFilter) ([]model.ActionLogView, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.ActionLogView), args.Error(1)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID uuid.UUID, role, inGameName string) (string, error) {
	args := m.Called(userID, role, inGameName)
	return args.String(0), args.Error(1)
}

// auditSink accepts every audit row and keeps them for inspection.
func auditSink() (*MockActionLogRepo, ActionLogService) {
	repo := new(MockActionLogRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	return repo, NewActionLogService(repo)
}

// recorded returns the audit rows written through repo, oldest first.
func recorded(repo *MockActionLogRepo) []*model.ActionLog {
	var out []*model.ActionLog
	for _, c := range repo.Calls {
		if c.Method == "Create" {
			out = append(out, c.Arguments.Get(1).(*model.ActionLog))
		}
	}
	return out
}

func testActor(role model.Role) Actor {
	return Actor{ID: uuid.New(), Role: role, Name: "tester"}
}

func bangkok() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		panic(err)
	}
	return loc
}
