package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/presence"
	"gang-admin-api/internal/service"
	"gang-admin-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInventory overrides the calls the tests reach; anything else panics.
type fakeInventory struct {
	service.InventoryService
	withdrawErr error
	lastActor   service.Actor
}

func (f *fakeInventory) Withdraw(actor service.Actor, req *service.MovementRequest) (*service.MovementResult, error) {
	f.lastActor = actor
	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}
	return &service.MovementResult{
		Transaction: &model.InventoryTransaction{ItemID: req.ItemID, Quantity: req.Quantity},
		Item:        &model.Item{Name: "Bandage"},
	}, nil
}

func (f *fakeInventory) Deposit(actor service.Actor, req *service.MovementRequest) (*service.MovementResult, error) {
	f.lastActor = actor
	return &service.MovementResult{Item: &model.Item{Name: "Bandage"}}, nil
}

type testServer struct {
	app       *fiber.App
	tokens    *jwt.Manager
	inventory *fakeInventory
}

func newTestServer() *testServer {
	tokens := jwt.NewManager("test-secret", time.Hour)
	inv := &fakeInventory{}
	store := presence.NewMemoryStore(presence.DefaultTimeout)

	app := fiber.New()
	RegisterRoutes(app, Handlers{
		Auth:         NewAuthHandler(nil),
		Me:           NewMeHandler(nil),
		User:         NewUserHandler(nil),
		Dashboard:    NewDashboardHandler(nil),
		Inventory:    NewInventoryHandler(inv),
		Attendance:   NewAttendanceHandler(nil, nil),
		GangWallet:   NewGangWalletHandler(nil),
		Announcement: NewAnnouncementHandler(nil),
		Setting:      NewSettingHandler(nil),
		Presence:     NewPresenceHandler(store, nil),
		Log:          NewLogHandler(nil),
	}, tokens, nil)

	return &testServer{app: app, tokens: tokens, inventory: inv}
}

func (s *testServer) do(t *testing.T, method, path, role string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := s.tokens.GenerateToken(uuid.New(), role, "Tester")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	s := newTestServer()
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{"POST", "/api/v1/inventory/deposit"},
		{"POST", "/api/v1/inventory/items"},
		{"PATCH", "/api/v1/inventory/items/" + id},
		{"DELETE", "/api/v1/inventory/items/" + id},
		{"POST", "/api/v1/attendance/admin-checkin"},
		{"GET", "/api/v1/attendance/statistics"},
		{"GET", "/api/v1/announcements"},
		{"POST", "/api/v1/announcements"},
		{"DELETE", "/api/v1/announcements/" + id},
		{"POST", "/api/v1/dashboard/weekly-payment"},
		{"POST", "/api/v1/dashboard/total-money"},
		{"GET", "/api/v1/admin/users"},
		{"PATCH", "/api/v1/admin/users/" + id + "/money"},
		{"PUT", "/api/v1/admin/settings"},
		{"GET", "/api/v1/admin/gang-wallet"},
		{"POST", "/api/v1/admin/gang-wallet/transaction"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, body := s.do(t, r.method, r.path, "USER", map[string]interface{}{})
			assert.Equal(t, fiber.StatusForbidden, status)
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/api/v1/me", "/api/v1/inventory/items", "/api/v1/logs", "/api/v1/admin/users"} {
		status, _ := s.do(t, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
}

func TestWithdrawOpenToMembers(t *testing.T) {
	s := newTestServer()
	itemID := uuid.New()

	status, body := s.do(t, "POST", "/api/v1/inventory/withdraw", "USER",
		map[string]interface{}{"item_id": itemID, "quantity": 2})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Withdrawal recorded", body["message"])
	assert.Equal(t, model.RoleUser, s.inventory.lastActor.Role)
	assert.Equal(t, "Tester", s.inventory.lastActor.Name)
}

func TestDepositAllowedForAdmin(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, "POST", "/api/v1/inventory/deposit", "ADMIN",
		map[string]interface{}{"item_id": uuid.New(), "quantity": 5})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, model.RoleAdmin, s.inventory.lastActor.Role)
}

func TestWithdrawMapsServiceErrors(t *testing.T) {
	s := newTestServer()
	s.inventory.withdrawErr = fmt.Errorf("%w: only 1 left", service.ErrInsufficientStock)

	status, body := s.do(t, "POST", "/api/v1/inventory/withdraw", "USER",
		map[string]interface{}{"item_id": uuid.New(), "quantity": 3})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["message"], "only 1 left")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	s := newTestServer()
	s.inventory.withdrawErr = errors.New("pq: connection refused")

	status, body := s.do(t, "POST", "/api/v1/inventory/withdraw", "USER",
		map[string]interface{}{"item_id": uuid.New(), "quantity": 1})

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestPresenceIsPublic(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, "POST", "/api/v1/presence/heartbeat", "", map[string]interface{}{"id": "u1", "name": "Luca", "role": "USER"})
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/api/v1/presence/active", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var active []presence.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&active))
	require.Len(t, active, 1)
	assert.Equal(t, "Luca", active[0].Name)

}

func TestHeartbeatRequiresIdentity(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"Blank ID", map[string]interface{}{"id": "  ", "name": "Luca", "role": "USER"}, "ID"},
		{"Missing Name", map[string]interface{}{"id": "u1", "role": "USER"}, "Name"},
		{"Blank Role", map[string]interface{}{"id": "u1", "name": "Luca", "role": " "}, "Role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.do(t, "POST", "/api/v1/presence/heartbeat", "", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Contains(t, body["message"], "'"+tc.field+"'")
		})
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/v1/presence/active", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var active []presence.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&active))
	assert.Empty(t, active)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		service.ErrInvalidInput:        fiber.StatusBadRequest,
		service.ErrWrongPassword:       fiber.StatusBadRequest,
		service.ErrInvalidCredentials:  fiber.StatusUnauthorized,
		service.ErrNotFound:            fiber.StatusNotFound,
		service.ErrAlreadyCheckedIn:    fiber.StatusConflict,
		service.ErrOutsideRound:        fiber.StatusConflict,
		service.ErrItemHasTransactions: fiber.StatusConflict,
		service.ErrPhoneExists:         fiber.StatusConflict,
		service.ErrItemExists:          fiber.StatusConflict,
		service.ErrInsufficientStock:   fiber.StatusUnprocessableEntity,
		service.ErrInsufficientFunds:   fiber.StatusUnprocessableEntity,
		errors.New("boom"):             fiber.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}
