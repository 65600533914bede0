package service

import (
	"errors"
	"fmt"
	"strings"

	"gang-admin-api/internal/model"
	"gang-admin-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MoneyOperation string

const (
	MoneySet      MoneyOperation = "set"
	MoneyAdd      MoneyOperation = "add"
	MoneySubtract MoneyOperation = "subtract"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	Roster() ([]model.UserSummary, error)
	CreateUser(actor Actor, req *CreateUserRequest) (*CreateUserResult, error)
	UpdateUser(actor Actor, userID uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	UpdateRole(actor Actor, userID uuid.UUID, role model.Role) (*model.UserResponse, error)
	ResetPassword(actor Actor, userID uuid.UUID) (string, error)
	DeleteUser(actor Actor, userID uuid.UUID) (*DeleteUserResult, error)
	AdjustMoney(actor Actor, userID uuid.UUID, req *AdjustMoneyRequest) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	PhoneNumber string     `json:"phone_number" validate:"required,min=6,max=10"`
	InGameName  string     `json:"in_game_name" validate:"required"`
	Role        model.Role `json:"role" validate:"required,oneof=ADMIN USER"`
	Password    string     `json:"password"`
}

type CreateUserResult struct {
	User            model.UserResponse `json:"user"`
	InitialPassword string             `json:"initial_password"`
}

type UpdateUserRequest struct {
	PhoneNumber *string     `json:"phone_number" validate:"omitempty,min=6,max=10"`
	InGameName  *string     `json:"in_game_name" validate:"omitempty,min=1"`
	Role        *model.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type AdjustMoneyRequest struct {
	Operation MoneyOperation `json:"action" validate:"required,oneof=set add subtract"`
	Amount    int64          `json:"amount" validate:"gte=0"`
	Reason    string         `json:"reason"`
}

type DeleteUserResult struct {
	DeletedUserID uuid.UUID `json:"deleted_user_id"`
	Attendances   int64     `json:"attendances"`
	Transactions  int64     `json:"transactions"`
}

type userService struct {
	userRepo       repository.UserRepository
	attendanceRepo repository.AttendanceRepository
	invTxRepo      repository.InventoryTxRepository
	txRunner       repository.TxRunner
	audit          ActionLogService
	resetPassword  string
}

func NewUserService(
	userRepo repository.UserRepository,
	attendanceRepo repository.AttendanceRepository,
	invTxRepo repository.InventoryTxRepository,
	txRunner repository.TxRunner,
	audit ActionLogService,
	resetPassword string,
) UserService {
	return &userService{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		invTxRepo:      invTxRepo,
		txRunner:       txRunner,
		audit:          audit,
		resetPassword:  resetPassword,
	}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

// Roster is the public member list used by attendance sheets.
func (s *userService) Roster() ([]model.UserSummary, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].ToSummary()
		out[i].ProfileImageURL = nil
	}
	return out, nil
}

func (s *userService) phoneTaken(phone string, except uuid.UUID) (bool, error) {
	existing, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != except, nil
}

func (s *userService) CreateUser(actor Actor, req *CreateUserRequest) (*CreateUserResult, error) {
	req.InGameName = strings.TrimSpace(req.InGameName)
	if err := validate(req); err != nil {
		return nil, err
	}

	taken, err := s.phoneTaken(req.PhoneNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPhoneExists
	}

	password := req.Password
	if password == "" {
		password = s.resetPassword
	}

	user := &model.User{
		PhoneNumber: req.PhoneNumber,
		InGameName:  req.InGameName,
		Role:        req.Role,
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()
	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneExists
		}
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminCreateUser,
		fmt.Sprintf("Create user: %s (%s) role=%s", user.InGameName, user.PhoneNumber, user.Role),
		map[string]interface{}{"user_id": user.ID.String(), "role": string(user.Role)})

	return &CreateUserResult{User: user.ToResponse(), InitialPassword: password}, nil
}

func (s *userService) UpdateUser(actor Actor, userID uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != user.PhoneNumber {
		taken, err := s.phoneTaken(*req.PhoneNumber, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneExists
		}
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.InGameName != nil {
		user.InGameName = strings.TrimSpace(*req.InGameName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateUser,
		fmt.Sprintf("Update user: %s (%s) role=%s", user.InGameName, user.PhoneNumber, user.Role),
		map[string]interface{}{"user_id": user.ID.String()})

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateRole(actor Actor, userID uuid.UUID, role model.Role) (*model.UserResponse, error) {
	if !role.Valid() {
		return nil, invalid("role must be ADMIN or USER")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	user.Role = role
	user.UpdatedBy = actor.ID.String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateUserRole,
		fmt.Sprintf("Update role: %s -> %s", user.InGameName, role),
		map[string]interface{}{"user_id": user.ID.String(), "role": string(role)})

	resp := user.ToResponse()
	return &resp, nil
}

// ResetPassword sets the configured default password and returns it.
func (s *userService) ResetPassword(actor Actor, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", notFound(err, "user")
	}
	if err := user.SetPassword(s.resetPassword); err != nil {
		return "", errors.New("failed to hash password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return "", err
	}

	s.audit.RecordAfter(actor.ID, model.ActionAdminResetPassword,
		fmt.Sprintf("Reset password: %s (%s)", user.InGameName, user.PhoneNumber),
		map[string]interface{}{"user_id": user.ID.String()})

	return s.resetPassword, nil
}

// DeleteUser removes the user with their attendance and inventory rows in one transaction.
func (s *userService) DeleteUser(actor Actor, userID uuid.UUID) (*DeleteUserResult, error) {
	if userID == actor.ID {
		return nil, invalid("you cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	result := &DeleteUserResult{DeletedUserID: user.ID}
	err = s.txRunner.Transaction(func(tx *gorm.DB) error {
		n, err := s.attendanceRepo.DeleteByUser(tx, user.ID)
		if err != nil {
			return err
		}
		result.Attendances = n

		n, err = s.invTxRepo.DeleteByUser(tx, user.ID)
		if err != nil {
			return err
		}
		result.Transactions = n

		if err := s.userRepo.Delete(tx, user.ID); err != nil {
			return notFound(err, "user")
		}

		return s.audit.Record(tx, actor.ID, model.ActionAdminDeleteUser,
			fmt.Sprintf("Delete user: %s (%s) role=%s (%d attendances, %d transactions deleted)",
				user.InGameName, user.PhoneNumber, user.Role, result.Attendances, result.Transactions),
			map[string]interface{}{
				"user_id":      user.ID.String(),
				"attendances":  result.Attendances,
				"transactions": result.Transactions,
			})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":        actor.ID,
		"user_id":      user.ID,
		"attendances":  result.Attendances,
		"transactions": result.Transactions,
	}).Info("user deleted")
	return result, nil
}

// ApplyMoney computes a member's new balance; the result never goes below zero.
func ApplyMoney(current int64, op MoneyOperation, amount int64) (int64, error) {
	var next int64
	switch op {
	case MoneySet:
		next = amount
	case MoneyAdd:
		next = current + amount
	case MoneySubtract:
		next = current - amount
	default:
		return current, invalid("unknown money action %q", op)
	}
	if next < 0 {
		next = 0
	}
	return next, nil
}

func (s *userService) AdjustMoney(actor Actor, userID uuid.UUID, req *AdjustMoneyRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	before := user.Money
	next, err := ApplyMoney(before, req.Operation, req.Amount)
	if err != nil {
		return nil, err
	}
	user.Money = next
	user.UpdatedBy = actor.ID.String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	reason := req.Reason
	if reason == "" {
		reason = "-"
	}
	s.audit.RecordAfter(actor.ID, model.ActionAdminUpdateUserMoney,
		fmt.Sprintf("Update money: %s (%s) %d -> %d (%s %d) reason: %s",
			user.InGameName, user.PhoneNumber, before, next, req.Operation, req.Amount, reason),
		map[string]interface{}{
			"user_id": user.ID.String(),
			"before":  before,
			"after":   next,
			"action":  string(req.Operation),
		})

	resp := user.ToResponse()
	return &resp, nil
}
