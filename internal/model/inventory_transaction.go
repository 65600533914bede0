package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "DEPOSIT"
	TxWithdrawal TransactionType = "WITHDRAWAL"
)

// InventoryTransaction is an immutable stock movement. Quantity is signed:
// positive for deposits, negative for withdrawals.
type InventoryTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item           `json:"item,omitempty"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User           `json:"user,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Reason          *string         `gorm:"type:text" json:"reason,omitempty"`
	Timestamp       time.Time       `gorm:"not null;index" json:"timestamp"`
}

func (t *InventoryTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	return nil
}

// Magnitude returns the unsigned quantity of the movement.
func (t *InventoryTransaction) Magnitude() int {
	if t.Quantity < 0 {
		return -t.Quantity
	}
	return t.Quantity
}

// ItemSummary is one row of the daily inventory rollup.
type ItemSummary struct {
	Item    *Item `json:"item"`
	Receive int   `json:"receive"`
	Sell    int   `json:"sell"`
	Net     int   `json:"net"`
}
