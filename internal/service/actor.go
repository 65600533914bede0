package service

import (
	"gang-admin-api/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
	Name string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}
