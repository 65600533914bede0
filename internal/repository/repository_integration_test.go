package repository

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// setupTestDB starts Postgres, migrates it and returns a GORM handle.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) *gorm.DB {
	if testing.Short() || !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("gang"),
		postgres.WithUsername("gang"),
		postgres.WithPassword("gang"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(database.Options{DSN: connStr})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, phone string) *model.User {
	u := &model.User{PhoneNumber: phone, InGameName: "member-" + phone, Role: model.RoleUser}
	require.NoError(t, u.SetPassword("secret1"))
	require.NoError(t, NewUserRepo(db).Create(u))
	return u
}

func TestIntegration_ConcurrentWithdrawNeverOversells(t *testing.T) {
	db := setupTestDB(t)
	items := NewItemRepo(db)
	txs := NewInventoryTxRepo(db)
	runner := NewTxRunner(db)
	user := seedUser(t, db, "0800000001")

	item := &model.Item{Name: "Bandage", CurrentStock: 5}
	require.NoError(t, items.Create(item))

	errShort := errors.New("short")
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Transaction(func(tx *gorm.DB) error {
				if _, err := items.LockByID(tx, item.ID); err != nil {
					return err
				}
				ok, err := items.AdjustStock(tx, item.ID, -1, time.Now())
				if err != nil {
					return err
				}
				if !ok {
					return errShort
				}
				return txs.Create(tx, &model.InventoryTransaction{
					ItemID: item.ID, UserID: user.ID, Quantity: -1, TransactionType: model.TxWithdrawal,
				})
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := items.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, got.CurrentStock)

	n, err := txs.CountByItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestIntegration_AttendanceUniquePerDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepo(db)
	user := seedUser(t, db, "0800000002")

	first := &model.AttendanceLog{UserID: user.ID, Session: 1, Status: model.StatusPresent, CheckInTime: time.Now(), AttendanceDate: "2024-05-01"}
	require.NoError(t, repo.Create(first))

	dup := &model.AttendanceLog{UserID: user.ID, Session: 1, Status: model.StatusPresent, CheckInTime: time.Now(), AttendanceDate: "2024-05-01"}
	assert.ErrorIs(t, repo.Create(dup), gorm.ErrDuplicatedKey)

	other := &model.AttendanceLog{UserID: user.ID, Session: 2, Status: model.StatusPresent, CheckInTime: time.Now(), AttendanceDate: "2024-05-01"}
	assert.NoError(t, repo.Create(other))
}

func TestIntegration_GangWalletLedger(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGangWalletRepo(db)
	runner := NewTxRunner(db)
	admin := seedUser(t, db, "0800000003")

	post := func(typ model.GangTransactionType, amount int64) error {
		return runner.Transaction(func(tx *gorm.DB) error {
			w, err := repo.Lock(tx)
			if err != nil {
				return err
			}
			before := w.Balance
			after := model.NextBalance(before, typ, amount)
			now := time.Now()
			if err := repo.Append(tx, &model.GangTransaction{
				Type: typ, Amount: amount, BalanceBefore: before, BalanceAfter: after,
				Description: "test", CreatedByID: admin.ID, CreatedAt: now,
			}); err != nil {
				return err
			}
			return repo.SetBalance(tx, after, now)
		})
	}

	require.NoError(t, post(model.GangIncome, 1000))
	require.NoError(t, post(model.GangExpense, 300))

	bal, err := repo.CurrentBalance(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(700), bal)

	recent, err := repo.Recent(50)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(1000), recent[0].BalanceBefore)
	require.NotNil(t, recent[0].CreatedByName)
	assert.Equal(t, admin.InGameName, *recent[0].CreatedByName)
}

func TestIntegration_ActionLogPayloadRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActionLogRepo(db)
	user := seedUser(t, db, "0800000004")
	itemID := uuid.New()

	require.NoError(t, repo.Create(nil, &model.ActionLog{
		PerformerID: user.ID,
		ActionType:  model.ActionUserWithdraw,
		Details:     "withdraw",
		Payload:     map[string]interface{}{"item_id": itemID.String(), "qty": 3},
	}))

	rows, err := repo.List(ActionLogFilter{PerformerID: &user.ID, Take: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, itemID.String(), rows[0].Payload["item_id"])
	assert.EqualValues(t, 3, rows[0].Payload["qty"])
	require.NotNil(t, rows[0].PerformerRole)
	assert.Equal(t, model.RoleUser, *rows[0].PerformerRole)
}
