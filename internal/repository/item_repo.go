package repository

import (
	"time"

	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	Create(item *model.Item) error
	FindAll() ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	FindByName(name string) (*model.Item, error)
	Update(item *model.Item) error
	Delete(id uuid.UUID) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, at time.Time) (bool, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByName(name string) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Update(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *itemRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Item{}, "id = ?", id).Error
}

// LockByID reads the item with SELECT ... FOR UPDATE; tx must be a transaction.
func (r *itemRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := pick(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AdjustStock applies delta only while the result stays non-negative.
// It reports false when no row matched that guard.
func (r *itemRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, at time.Time) (bool, error) {
	res := pick(r.db, tx).Model(&model.Item{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"last_updated":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
