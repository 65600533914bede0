package service

import (
	"errors"
	"testing"

	"gang-admin-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMember(t *testing.T, password string) *model.User {
	u := &model.User{PhoneNumber: "0812345678", InGameName: "Vito", Role: model.RoleUser}
	u.ID = uuid.New()
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestAuthService_Login(t *testing.T) {
	member := newMember(t, "secret1")

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenIssuer)
		logRepo, audit := auditSink()
		svc := NewAuthService(userRepo, tokens, audit)

		userRepo.On("FindByPhone", "0812345678").Return(member, nil)
		tokens.On("GenerateToken", member.ID, "USER", "Vito").Return("signed", nil)

		res, err := svc.Login("0812345678", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "signed", res.Token)
		assert.Equal(t, member.ID, res.User.ID)

		logs := recorded(logRepo)
		require.Len(t, logs, 1)
		assert.Equal(t, model.ActionUserLogin, logs[0].ActionType)
		assert.Equal(t, member.ID, logs[0].PerformerID)
	})

	t.Run("Unknown Phone And Wrong Password Look Alike", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenIssuer)
		logRepo, audit := auditSink()
		svc := NewAuthService(userRepo, tokens, audit)

		userRepo.On("FindByPhone", "0899999999").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("FindByPhone", "0812345678").Return(member, nil)

		_, errUnknown := svc.Login("0899999999", "secret1")
		_, errWrong := svc.Login("0812345678", "nope")

		assert.True(t, errors.Is(errUnknown, ErrInvalidCredentials))
		assert.True(t, errors.Is(errWrong, ErrInvalidCredentials))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
		tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, recorded(logRepo))
	})
}

func TestProfileService_Update(t *testing.T) {
	t.Run("Password Change Needs Current Password", func(t *testing.T) {
		member := newMember(t, "secret1")
		userRepo := new(MockUserRepo)
		_, audit := auditSink()
		svc := NewProfileService(userRepo, audit)
		userRepo.On("FindByID", member.ID).Return(member, nil)

		actor := Actor{ID: member.ID, Role: member.Role, Name: member.InGameName}
		_, err := svc.Update(actor, &UpdateProfileRequest{CurrentPassword: "wrong!", NewPassword: "another1"})
		assert.True(t, errors.Is(err, ErrWrongPassword))

		_, err = svc.Update(actor, &UpdateProfileRequest{NewPassword: "another1"})
		assert.True(t, errors.Is(err, ErrInvalidInput))
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("Changes Password And Name", func(t *testing.T) {
		member := newMember(t, "secret1")
		userRepo := new(MockUserRepo)
		logRepo, audit := auditSink()
		svc := NewProfileService(userRepo, audit)
		userRepo.On("FindByID", member.ID).Return(member, nil)
		userRepo.On("UpdatePassword", member.ID, mock.Anything).Return(nil)
		userRepo.On("Update", mock.Anything).Return(nil)

		name := "Don Vito"
		res, err := svc.Update(Actor{ID: member.ID}, &UpdateProfileRequest{
			InGameName:      &name,
			CurrentPassword: "secret1",
			NewPassword:     "another1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Don Vito", res.InGameName)
		assert.True(t, member.CheckPassword("another1"))

		logs := recorded(logRepo)
		require.Len(t, logs, 2)
		assert.Equal(t, model.ActionUserChangePassword, logs[0].ActionType)
		assert.Equal(t, model.ActionUserUpdateProfile, logs[1].ActionType)
	})
}
