package repository

import (
	"time"

	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryTxRepository interface {
	Create(tx *gorm.DB, t *model.InventoryTransaction) error
	List(filter InventoryTxFilter) ([]model.InventoryTransaction, int64, error)
	ListByUser(userID uuid.UUID, limit int) ([]model.InventoryTransaction, error)
	ListBetween(from, to time.Time) ([]model.InventoryTransaction, error)
	CountBetween(from, to time.Time) (int64, error)
	CountByItem(itemID uuid.UUID) (int64, error)
	DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error)
}

// InventoryTxFilter narrows the ledger listing. Zero values are ignored.
type InventoryTxFilter struct {
	From   *time.Time
	To     *time.Time
	ItemID *uuid.UUID
	Type   model.TransactionType
	Limit  int
}

type inventoryTxRepo struct {
	db *gorm.DB
}

func NewInventoryTxRepo(db *gorm.DB) InventoryTxRepository {
	return &inventoryTxRepo{db}
}

func (r *inventoryTxRepo) Create(tx *gorm.DB, t *model.InventoryTransaction) error {
	return pick(r.db, tx).Omit("Item", "User").Create(t).Error
}

func (f InventoryTxFilter) scope(db *gorm.DB) *gorm.DB {
	if f.From != nil {
		db = db.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("timestamp <= ?", *f.To)
	}
	if f.ItemID != nil {
		db = db.Where("item_id = ?", *f.ItemID)
	}
	if f.Type != "" {
		db = db.Where("transaction_type = ?", f.Type)
	}
	return db
}

func (r *inventoryTxRepo) List(filter InventoryTxFilter) ([]model.InventoryTransaction, int64, error) {
	var total int64
	if err := r.db.Model(&model.InventoryTransaction{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.InventoryTransaction
	err := r.db.Scopes(filter.scope).
		Preload("Item").Preload("User").
		Order("timestamp DESC").
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *inventoryTxRepo) ListByUser(userID uuid.UUID, limit int) ([]model.InventoryTransaction, error) {
	var rows []model.InventoryTransaction
	err := r.db.Preload("Item").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *inventoryTxRepo) ListBetween(from, to time.Time) ([]model.InventoryTransaction, error) {
	var rows []model.InventoryTransaction
	err := r.db.Preload("Item").
		Where("timestamp BETWEEN ? AND ?", from, to).
		Order("timestamp ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryTxRepo) CountBetween(from, to time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&model.InventoryTransaction{}).
		Where("timestamp BETWEEN ? AND ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *inventoryTxRepo) CountByItem(itemID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Model(&model.InventoryTransaction{}).Where("item_id = ?", itemID).Count(&n).Error
	return n, err
}

func (r *inventoryTxRepo) DeleteByUser(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	res := pick(r.db, tx).Where("user_id = ?", userID).Delete(&model.InventoryTransaction{})
	return res.RowsAffected, res.Error
}
