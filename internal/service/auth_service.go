package service

import (
	"errors"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, role, inGameName string) (string, error)
}

type AuthService interface {
	Login(phone, password string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	audit    ActionLogService
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, audit ActionLogService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		audit:    audit,
	}
}

// Login never reveals whether the phone number exists.
func (s *authService) Login(phone, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role), user.InGameName)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("token signing failed")
		return nil, errors.New("failed to generate token")
	}

	s.audit.RecordAfter(user.ID, model.ActionUserLogin, "Login: "+user.InGameName, nil)

	return &LoginResponse{
		Token: token,
		User:  user.ToSummary(),
	}, nil
}
