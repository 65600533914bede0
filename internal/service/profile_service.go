package service

import (
	"errors"
	"fmt"
	"strings"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"
)

type ProfileService interface {
	Get(actor Actor) (*model.UserResponse, error)
	Update(actor Actor, req *UpdateProfileRequest) (*model.UserResponse, error)
}

type UpdateProfileRequest struct {
	InGameName      *string `json:"in_game_name" validate:"omitempty,min=1,max=100"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,max=500"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" validate:"omitempty,min=6"`
}

type profileService struct {
	userRepo repository.UserRepository
	audit    ActionLogService
}

func NewProfileService(userRepo repository.UserRepository, audit ActionLogService) ProfileService {
	return &profileService{userRepo: userRepo, audit: audit}
}

func (s *profileService) Get(actor Actor) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Update changes the caller's own profile. A password change needs the current password.
func (s *profileService) Update(actor Actor, req *UpdateProfileRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, invalid("current password is required")
		}
		if !user.CheckPassword(req.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			return nil, errors.New("failed to hash new password")
		}
		if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
			return nil, err
		}
		s.audit.RecordAfter(user.ID, model.ActionUserChangePassword, "User changed password", nil)
	}

	changed := map[string]interface{}{}
	if req.InGameName != nil && strings.TrimSpace(*req.InGameName) != "" {
		user.InGameName = strings.TrimSpace(*req.InGameName)
		changed["in_game_name"] = user.InGameName
	}
	if req.ProfileImageURL != nil && *req.ProfileImageURL != "" {
		url := *req.ProfileImageURL
		user.ProfileImageURL = &url
		changed["profile_image_url"] = url
	}

	if len(changed) > 0 {
		user.UpdatedBy = user.ID.String()
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		s.audit.RecordAfter(user.ID, model.ActionUserUpdateProfile,
			fmt.Sprintf("Updated profile: %d field(s)", len(changed)), changed)
	}

	resp := user.ToResponse()
	return &resp, nil
}
