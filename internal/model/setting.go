package model

import "time"

// Well-known setting keys
const (
	SettingAttendanceRounds   = "attendance_rounds"
	SettingAttendanceDeadline = "attendance_deadline"
	SettingTotalMoneyPool     = "total_money_pool"
)

type GlobalSetting struct {
	Key         string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
