package service

import (
	"fmt"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
	"gang-admin-api/internal/ws"

	"github.com/google/uuid"
)

type AnnouncementService interface {
	Active() ([]model.Announcement, error)
	GetAll() ([]model.Announcement, error)
	Create(actor Actor, req *AnnouncementRequest) (*model.Announcement, error)
	Update(actor Actor, id uuid.UUID, req *UpdateAnnouncementRequest) (*model.Announcement, error)
	Delete(actor Actor, id uuid.UUID) error
}

type AnnouncementRequest struct {
	Title     string                     `json:"title" validate:"required,max=255"`
	Content   string                     `json:"content" validate:"required"`
	Status    model.AnnouncementStatus   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT EXPIRED"`
	Priority  model.AnnouncementPriority `json:"priority" validate:"omitempty,oneof=URGENT NORMAL"`
	StartDate time.Time                  `json:"start_date" validate:"required"`
	EndDate   time.Time                  `json:"end_date" validate:"required"`
}

type UpdateAnnouncementRequest struct {
	Title     *string                     `json:"title" validate:"omitempty,min=1,max=255"`
	Content   *string                     `json:"content" validate:"omitempty,min=1"`
	Status    *model.AnnouncementStatus   `json:"status" validate:"omitempty,oneof=ACTIVE DRAFT EXPIRED"`
	Priority  *model.AnnouncementPriority `json:"priority" validate:"omitempty,oneof=URGENT NORMAL"`
	StartDate *time.Time                  `json:"start_date"`
	EndDate   *time.Time                  `json:"end_date"`
}

type announcementService struct {
	repo  repository.AnnouncementRepository
	audit ActionLogService
	wsHub *ws.Hub
	now   func() time.Time
}

func NewAnnouncementService(repo repository.AnnouncementRepository, audit ActionLogService, hub *ws.Hub) AnnouncementService {
	return &announcementService{repo: repo, audit: audit, wsHub: hub, now: time.Now}
}

// Active lists what members currently see.
func (s *announcementService) Active() ([]model.Announcement, error) {
	return s.repo.FindVisible(s.now())
}

func (s *announcementService) GetAll() ([]model.Announcement, error) {
	return s.repo.FindAll()
}

func (s *announcementService) Create(actor Actor, req *AnnouncementRequest) (*model.Announcement, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, invalid("end date cannot be before start date")
	}

	a := &model.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Status:    req.Status,
		Priority:  req.Priority,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if a.Status == "" {
		a.Status = model.AnnouncementActive
	}
	if a.Priority == "" {
		a.Priority = model.PriorityNormal
	}
	a.CreatedBy = actor.ID.String()
	a.UpdatedBy = actor.ID.String()

	if err := s.repo.Create(a); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminCreateAnnounce,
		fmt.Sprintf("Create announcement: %s", a.Title),
		map[string]interface{}{"announcement_id": a.ID.String(), "status": string(a.Status)})
	s.wsHub.Publish(ws.EventAnnouncement, "created", a.Title, a)
	return a, nil
}

func (s *announcementService) Update(actor Actor, id uuid.UUID, req *UpdateAnnouncementRequest) (*model.Announcement, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "announcement")
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.Priority != nil {
		a.Priority = *req.Priority
	}
	if req.StartDate != nil {
		a.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		a.EndDate = *req.EndDate
	}
	if a.EndDate.Before(a.StartDate) {
		return nil, invalid("end date cannot be before start date")
	}
	a.UpdatedBy = actor.ID.String()

	if err := s.repo.Update(a); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateAnnounce,
		fmt.Sprintf("Update announcement: %s", a.Title),
		map[string]interface{}{"announcement_id": a.ID.String(), "status": string(a.Status)})
	s.wsHub.Publish(ws.EventAnnouncement, "updated", a.Title, a)
	return a, nil
}

func (s *announcementService) Delete(actor Actor, id uuid.UUID) error {
	a, err := s.repo.FindByID(id)
	if err != nil {
		return notFound(err, "announcement")
	}
	if err := s.repo.Delete(id); err != nil {
		return notFound(err, "announcement")
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminDeleteAnnounce,
		fmt.Sprintf("Delete announcement: %s", a.Title),
		map[string]interface{}{"announcement_id": a.ID.String()})
	s.wsHub.Publish(ws.EventAnnouncement, "deleted", a.Title, map[string]interface{}{"id": a.ID})
	return nil
}
