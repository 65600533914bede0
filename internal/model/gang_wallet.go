package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GangTransactionType string

const (
	GangIncome  GangTransactionType = "INCOME"
	GangExpense GangTransactionType = "EXPENSE"
)

// GangWalletID is the primary key of the single wallet row.
const GangWalletID = 1

// GangWallet is the materialized balance. Posting locks this row so ledger
// appends are serialized.
type GangWallet struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Balance   int64     `gorm:"not null" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GangTransaction is an immutable ledger row.
type GangTransaction struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key;" json:"id"`
	Type          GangTransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Amount        int64               `gorm:"not null" json:"amount"`
	BalanceBefore int64               `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64               `gorm:"not null" json:"balance_after"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	CreatedByID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt     time.Time           `gorm:"not null;index" json:"created_at"`
}

func (t *GangTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// GangTransactionView is a ledger row joined with its creator's name.
// Creator rows may have been deleted since, so the name is optional.
type GangTransactionView struct {
	GangTransaction
	CreatedByName *string `json:"created_by_name"`
}

// NextBalance applies a posting of amount to before.
func NextBalance(before int64, typ GangTransactionType, amount int64) int64 {
	if typ == GangExpense {
		return before - amount
	}
	return before + amount
}
