package repository

import (
	"errors"
	"time"

	"gang-admin-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GangWalletRepository interface {
	Lock(tx *gorm.DB) (*model.GangWallet, error)
	CurrentBalance(tx *gorm.DB) (int64, error)
	Append(tx *gorm.DB, t *model.GangTransaction) error
	SetBalance(tx *gorm.DB, balance int64, at time.Time) error
	Recent(limit int) ([]model.GangTransactionView, error)
}

type gangWalletRepo struct {
	db *gorm.DB
}

func NewGangWalletRepo(db *gorm.DB) GangWalletRepository {
	return &gangWalletRepo{db}
}

// Lock ensures the wallet row exists and holds FOR UPDATE on it until tx ends.
func (r *gangWalletRepo) Lock(tx *gorm.DB) (*model.GangWallet, error) {
	db := pick(r.db, tx)
	seed := model.GangWallet{ID: model.GangWalletID, UpdatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var w model.GangWallet
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, "id = ?", model.GangWalletID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// CurrentBalance reads the materialized balance, 0 before the first post.
func (r *gangWalletRepo) CurrentBalance(tx *gorm.DB) (int64, error) {
	var w model.GangWallet
	err := pick(r.db, tx).First(&w, "id = ?", model.GangWalletID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (r *gangWalletRepo) Append(tx *gorm.DB, t *model.GangTransaction) error {
	return pick(r.db, tx).Create(t).Error
}

func (r *gangWalletRepo) SetBalance(tx *gorm.DB, balance int64, at time.Time) error {
	return pick(r.db, tx).Model(&model.GangWallet{}).
		Where("id = ?", model.GangWalletID).
		Updates(map[string]interface{}{"balance": balance, "updated_at": at}).Error
}

func (r *gangWalletRepo) Recent(limit int) ([]model.GangTransactionView, error) {
	var rows []model.GangTransactionView
	err := r.db.Table("gang_transactions").
		Select("gang_transactions.*, users.in_game_name AS created_by_name").
		Joins("LEFT JOIN users ON users.id = gang_transactions.created_by_id").
		Order("gang_transactions.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
