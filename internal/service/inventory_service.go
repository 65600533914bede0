package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
	"gang-admin-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	txListLimit   = 100
	myTxListLimit = 100
)

type InventoryService interface {
	GetAllItems() ([]model.Item, error)
	CreateItem(actor Actor, req *CreateItemRequest) (*model.Item, error)
	UpdateItem(actor Actor, id uuid.UUID, req *UpdateItemRequest) (*model.Item, error)
	DeleteItem(actor Actor, id uuid.UUID) error
	Withdraw(actor Actor, req *MovementRequest) (*MovementResult, error)
	Deposit(actor Actor, req *MovementRequest) (*MovementResult, error)
	Transactions(q TransactionQuery) (*TransactionList, error)
	MyTransactions(actor Actor) ([]model.InventoryTransaction, error)
	DailySummary(day string) ([]model.ItemSummary, error)
}

type CreateItemRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	CurrentStock int    `json:"current_stock" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	CurrentStock *int    `json:"current_stock" validate:"omitempty,gte=0"`
}

// MovementRequest moves stock in or out. Quantity is taken as a magnitude.
type MovementRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity"`
	Reason   *string   `json:"reason"`
}

type MovementResult struct {
	Transaction *model.InventoryTransaction `json:"transaction"`
	Item        *model.Item                 `json:"item"`
}

type TransactionQuery struct {
	StartDate string
	EndDate   string
	ItemID    *uuid.UUID
	Type      string
}

type TransactionList struct {
	Transactions []model.InventoryTransaction `json:"transactions"`
	Total        int64                        `json:"total"`
}

type inventoryService struct {
	itemRepo  repository.ItemRepository
	invTxRepo repository.InventoryTxRepository
	txRunner  repository.TxRunner
	audit     ActionLogService
	wsHub     *ws.Hub
	loc       *time.Location
	now       func() time.Time
}

func NewInventoryService(
	itemRepo repository.ItemRepository,
	invTxRepo repository.InventoryTxRepository,
	txRunner repository.TxRunner,
	audit ActionLogService,
	hub *ws.Hub,
	loc *time.Location,
) InventoryService {
	return &inventoryService{
		itemRepo:  itemRepo,
		invTxRepo: invTxRepo,
		txRunner:  txRunner,
		audit:     audit,
		wsHub:     hub,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *inventoryService) GetAllItems() ([]model.Item, error) {
	return s.itemRepo.FindAll()
}

func (s *inventoryService) nameTaken(name string, except uuid.UUID) (bool, error) {
	existing, err := s.itemRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != except, nil
}

func (s *inventoryService) CreateItem(actor Actor, req *CreateItemRequest) (*model.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrItemExists
	}

	item := &model.Item{Name: req.Name, CurrentStock: req.CurrentStock, LastUpdated: s.now()}
	if err := s.itemRepo.Create(item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrItemExists
		}
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminCreateItem,
		fmt.Sprintf("Create item: %s (stock: %d)", item.Name, item.CurrentStock),
		map[string]interface{}{"item_id": item.ID.String(), "item_name": item.Name, "stock": item.CurrentStock})
	s.wsHub.Publish(ws.EventStockUpdate, "item_created", fmt.Sprintf("%s created item '%s'", actor.Name, item.Name), item)
	return item, nil
}

func (s *inventoryService) UpdateItem(actor Actor, id uuid.UUID, req *UpdateItemRequest) (*model.Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "item")
	}
	oldStock := item.CurrentStock

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != item.Name {
			taken, err := s.nameTaken(name, item.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrItemExists
			}
			item.Name = name
		}
	}
	if req.CurrentStock != nil {
		item.CurrentStock = *req.CurrentStock
	}
	item.LastUpdated = s.now()

	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateItem,
		fmt.Sprintf("Update item: %s (stock: %d -> %d)", item.Name, oldStock, item.CurrentStock),
		map[string]interface{}{"item_id": item.ID.String(), "item_name": item.Name, "old_stock": oldStock, "new_stock": item.CurrentStock})
	s.wsHub.Publish(ws.EventStockUpdate, "item_updated", fmt.Sprintf("%s updated item '%s'", actor.Name, item.Name), item)
	return item, nil
}

// DeleteItem refuses items that already have ledger rows.
func (s *inventoryService) DeleteItem(actor Actor, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return notFound(err, "item")
	}
	n, err := s.invTxRepo.CountByItem(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w (%d transactions)", ErrItemHasTransactions, n)
	}
	if err := s.itemRepo.Delete(id); err != nil {
		return err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminDeleteItem,
		fmt.Sprintf("Delete item: %s", item.Name),
		map[string]interface{}{"item_id": item.ID.String(), "item_name": item.Name})
	s.wsHub.Publish(ws.EventStockUpdate, "item_deleted", fmt.Sprintf("%s deleted item '%s'", actor.Name, item.Name), item)
	return nil
}

func (s *inventoryService) Withdraw(actor Actor, req *MovementRequest) (*MovementResult, error) {
	return s.move(actor, req, model.TxWithdrawal)
}

func (s *inventoryService) Deposit(actor Actor, req *MovementRequest) (*MovementResult, error) {
	return s.move(actor, req, model.TxDeposit)
}

// move locks the item, applies the signed delta behind a non-negative guard,
// then appends the ledger row and its audit entry in the same transaction.
func (s *inventoryService) move(actor Actor, req *MovementRequest, typ model.TransactionType) (*MovementResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty < 0 {
		qty = -qty
	}
	if qty == 0 {
		return nil, invalid("quantity must be greater than zero")
	}
	delta := qty
	action := model.ActionAdminDeposit
	if typ == model.TxWithdrawal {
		delta = -qty
		action = model.ActionUserWithdraw
	}

	var result MovementResult
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.LockByID(tx, req.ItemID)
		if err != nil {
			return notFound(err, "item")
		}
		if item.CurrentStock+delta < 0 {
			return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, item.Name, item.CurrentStock, qty)
		}

		now := s.now()
		ok, err := s.itemRepo.AdjustStock(tx, item.ID, delta, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
		}
		item.CurrentStock += delta
		item.LastUpdated = now

		row := &model.InventoryTransaction{
			ItemID:          item.ID,
			UserID:          actor.ID,
			Quantity:        delta,
			TransactionType: typ,
			Reason:          req.Reason,
			Timestamp:       now,
		}
		if err := s.invTxRepo.Create(tx, row); err != nil {
			return err
		}

		payload := map[string]interface{}{
			"item_id":   item.ID.String(),
			"item_name": item.Name,
			"qty":       qty,
		}
		reason := "-"
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
			payload["reason"] = reason
		}
		if err := s.audit.Record(tx, actor.ID, action,
			fmt.Sprintf("%s %s x%d (reason: %s)", typ, item.Name, qty, reason), payload); err != nil {
			return err
		}

		result = MovementResult{Transaction: row, Item: item}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"actor":   actor.ID,
			"item_id": req.ItemID,
			"type":    typ,
			"qty":     qty,
			"error":   err.Error(),
		}).Warn("inventory movement rejected")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":     actor.ID,
		"item_id":   result.Item.ID,
		"type":      typ,
		"qty":       qty,
		"new_stock": result.Item.CurrentStock,
	}).Info("inventory movement")

	verb := "removed"
	if typ == model.TxDeposit {
		verb = "added"
	}
	s.wsHub.Publish(ws.EventStockUpdate, strings.ToLower(string(typ)),
		fmt.Sprintf("%s %s %d units of '%s'", actor.Name, verb, qty, result.Item.Name),
		map[string]interface{}{
			"item_id":   result.Item.ID,
			"quantity":  delta,
			"new_stock": result.Item.CurrentStock,
		})
	return &result, nil
}

func (s *inventoryService) parseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, s.loc)
	if err != nil {
		return time.Time{}, invalid("invalid date format, use YYYY-MM-DD")
	}
	return t, nil
}

func (s *inventoryService) Transactions(q TransactionQuery) (*TransactionList, error) {
	filter := repository.InventoryTxFilter{ItemID: q.ItemID, Limit: txListLimit}
	if q.Type != "" {
		typ := model.TransactionType(strings.ToUpper(q.Type))
		if typ != model.TxDeposit && typ != model.TxWithdrawal {
			return nil, invalid("type must be DEPOSIT or WITHDRAWAL")
		}
		filter.Type = typ
	}
	if q.StartDate != "" {
		from, err := s.parseDay(q.StartDate)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		to, err := s.parseDay(q.EndDate)
		if err != nil {
			return nil, err
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &to
	}

	rows, total, err := s.invTxRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &TransactionList{Transactions: rows, Total: total}, nil
}

func (s *inventoryService) MyTransactions(actor Actor) ([]model.InventoryTransaction, error) {
	return s.invTxRepo.ListByUser(actor.ID, myTxListLimit)
}

// DailySummary rolls up one local day; an empty day means today.
func (s *inventoryService) DailySummary(day string) ([]model.ItemSummary, error) {
	var from time.Time
	if day == "" {
		now := s.now().In(s.loc)
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	} else {
		var err error
		if from, err = s.parseDay(day); err != nil {
			return nil, err
		}
	}
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	rows, err := s.invTxRepo.ListBetween(from, to)
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

// Summarize aggregates movements per item in first-seen order:
// receive sums deposits, sell sums withdrawal magnitudes.
func Summarize(rows []model.InventoryTransaction) []model.ItemSummary {
	index := make(map[uuid.UUID]int)
	var out []model.ItemSummary
	for i := range rows {
		t := &rows[i]
		pos, ok := index[t.ItemID]
		if !ok {
			pos = len(out)
			index[t.ItemID] = pos
			item := t.Item
			if item == nil {
				item = &model.Item{ID: t.ItemID}
			}
			out = append(out, model.ItemSummary{Item: item})
		}
		switch t.TransactionType {
		case model.TxDeposit:
			out[pos].Receive += t.Magnitude()
		case model.TxWithdrawal:
			out[pos].Sell += t.Magnitude()
		}
	}
	for i := range out {
		out[i].Net = out[i].Receive - out[i].Sell
	}
	if out == nil {
		out = []model.ItemSummary{}
	}
	return out
}
