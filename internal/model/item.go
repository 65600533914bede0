package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CurrentStock int       `gorm:"not null" json:"current_stock"`
	LastUpdated  time.Time `gorm:"not null" json:"last_updated"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.LastUpdated.IsZero() {
		i.LastUpdated = time.Now()
	}
	return nil
}
