package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "O"
	StatusLate    AttendanceStatus = "L"
	StatusAbsent  AttendanceStatus = "A"
	StatusExcused AttendanceStatus = "-"
)

// Valid reports whether s can be stored on an attendance row.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// AttendanceLog records one check-in for one round on one local calendar day.
// AttendanceDate is the "YYYY-MM-DD" day key so the store can reject duplicates.
type AttendanceLog struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_session_day,priority:1" json:"user_id"`
	User           *User            `json:"user,omitempty"`
	Session        int              `gorm:"not null;uniqueIndex:idx_attendance_user_session_day,priority:2" json:"session"`
	Status         AttendanceStatus `gorm:"type:varchar(1);not null" json:"status"`
	CheckInTime    time.Time        `gorm:"not null;index" json:"check_in_time"`
	AttendanceDate string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_session_day,priority:3" json:"attendance_date"`
}

func (a *AttendanceLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DayKey formats t as the local calendar day used by AttendanceDate.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// AttendanceCounts aggregates statuses over a window.
type AttendanceCounts struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
	Total   int `json:"total"`
}

// Add counts one status.
func (c *AttendanceCounts) Add(s AttendanceStatus) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusLate:
		c.Late++
	case StatusAbsent:
		c.Absent++
	case StatusExcused:
		c.Leave++
	default:
		return
	}
	c.Total++
}

type UserAttendanceStats struct {
	User  UserSummary      `json:"user"`
	Stats AttendanceCounts `json:"stats"`
}
