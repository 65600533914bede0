package service

import (
	"errors"
	"fmt"

	"gang-admin-api/pkg/validator"

	"gorm.io/gorm"
)

// Error kinds. Handlers classify with errors.Is; specific errors wrap a kind.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid phone number or password")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientFunds   = errors.New("insufficient gang wallet balance")
	ErrAlreadyCheckedIn    = errors.New("already checked in for this round")
	ErrOutsideRound        = errors.New("not inside any check-in round")
	ErrItemHasTransactions = errors.New("item has transactions and cannot be deleted")
	ErrPhoneExists         = errors.New("phone number already registered")
	ErrItemExists          = errors.New("item name already exists")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound maps a missing record to ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// validate runs struct tags and reports the first failure as ErrInvalidInput.
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid("validation failed: %s", errs[0])
	}
	return nil
}
