package model

import "time"

type AnnouncementStatus string

const (
	AnnouncementActive  AnnouncementStatus = "ACTIVE"
	AnnouncementDraft   AnnouncementStatus = "DRAFT"
	AnnouncementExpired AnnouncementStatus = "EXPIRED"
)

type AnnouncementPriority string

const (
	PriorityUrgent AnnouncementPriority = "URGENT"
	PriorityNormal AnnouncementPriority = "NORMAL"
)

type Announcement struct {
	BaseModel
	Title     string               `gorm:"type:varchar(255);not null" json:"title"`
	Content   string               `gorm:"type:text;not null" json:"content"`
	Status    AnnouncementStatus   `gorm:"type:varchar(10);not null;index" json:"status"`
	Priority  AnnouncementPriority `gorm:"type:varchar(10);not null" json:"priority"`
	StartDate time.Time            `gorm:"not null" json:"start_date"`
	EndDate   time.Time            `gorm:"not null" json:"end_date"`
}

// VisibleAt reports whether the announcement is shown to members at t.
func (a *Announcement) VisibleAt(t time.Time) bool {
	return a.Status == AnnouncementActive && !t.Before(a.StartDate) && !t.After(a.EndDate)
}
