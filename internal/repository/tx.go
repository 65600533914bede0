package repository

import "gorm.io/gorm"

// TxRunner runs fn inside one database transaction. Repository methods that
// take a *gorm.DB use it when non-nil and fall back to their own handle.
type TxRunner interface {
	Transaction(fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db}
}

func (r *gormTxRunner) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func pick(base, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}
