package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActionType string

const (
	ActionUserLogin             ActionType = "USER_LOGIN"
	ActionUserCheckin           ActionType = "USER_CHECKIN"
	ActionUserWithdraw          ActionType = "USER_WITHDRAW"
	ActionUserChangePassword    ActionType = "USER_CHANGE_PASSWORD"
	ActionUserUpdateProfile     ActionType = "USER_UPDATE_PROFILE"
	ActionAdminCheckin          ActionType = "ADMIN_CHECKIN"
	ActionAdminDeposit          ActionType = "ADMIN_DEPOSIT"
	ActionAdminCreateItem       ActionType = "ADMIN_CREATE_ITEM"
	ActionAdminUpdateItem       ActionType = "ADMIN_UPDATE_ITEM"
	ActionAdminDeleteItem       ActionType = "ADMIN_DELETE_ITEM"
	ActionAdminCreateAnnounce   ActionType = "ADMIN_CREATE_ANNOUNCEMENT"
	ActionAdminUpdateAnnounce   ActionType = "ADMIN_UPDATE_ANNOUNCEMENT"
	ActionAdminDeleteAnnounce   ActionType = "ADMIN_DELETE_ANNOUNCEMENT"
	ActionAdminCreateUser       ActionType = "ADMIN_CREATE_USER"
	ActionAdminUpdateUser       ActionType = "ADMIN_UPDATE_USER"
	ActionAdminUpdateUserRole   ActionType = "ADMIN_UPDATE_USER_ROLE"
	ActionAdminResetPassword    ActionType = "ADMIN_RESET_PASSWORD"
	ActionAdminDeleteUser       ActionType = "ADMIN_DELETE_USER"
	ActionAdminUpdateUserMoney  ActionType = "ADMIN_UPDATE_USER_MONEY"
	ActionAdminUpdateSetting    ActionType = "ADMIN_UPDATE_SETTING"
	ActionAdminWeeklyPayment    ActionType = "ADMIN_WEEKLY_PAYMENT"
	ActionAdminTotalMoneyUpdate ActionType = "ADMIN_TOTAL_MONEY_UPDATE"
	ActionGangWalletTransaction ActionType = "GANG_WALLET_TRANSACTION"
)

// SensitiveActions are hidden from the public activity feed.
var SensitiveActions = []ActionType{
	ActionAdminResetPassword,
	ActionAdminDeleteUser,
	ActionAdminUpdateUserRole,
	ActionAdminUpdateUser,
	ActionAdminCreateUser,
	ActionUserChangePassword,
}

// ActionLog is an immutable audit row. Payload holds the structured values
// (item_id, qty, round, ...) so readers never parse Details.
type ActionLog struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key;" json:"id"`
	PerformerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"performer_id"`
	ActionType  ActionType        `gorm:"type:varchar(50);not null;index" json:"action_type"`
	Details     string            `gorm:"type:text" json:"details"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb" json:"payload,omitempty"`
	Timestamp   time.Time         `gorm:"not null;index" json:"timestamp"`
}

func (l *ActionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}

// ActionLogView is an audit row joined with the performer.
type ActionLogView struct {
	ActionLog
	PerformerName *string `json:"performer_name"`
	PerformerRole *Role   `json:"performer_role"`
	Display       string  `gorm:"-" json:"display"`
}
