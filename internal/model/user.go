package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a community member. PhoneNumber is the in-game phone used to log in.
type User struct {
	BaseModel
	PhoneNumber     string  `gorm:"type:varchar(10);uniqueIndex;not null" json:"phone_number"`
	InGameName      string  `gorm:"type:varchar(100);not null" json:"in_game_name"`
	Password        string  `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role            Role    `gorm:"type:varchar(10);not null" json:"role"`
	Money           int64   `gorm:"not null" json:"money"`
	ProfileImageURL *string `gorm:"type:varchar(500)" json:"profile_image_url,omitempty"`

	Attendances  []AttendanceLog        `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Transactions []InventoryTransaction `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	PhoneNumber     string    `json:"phone_number"`
	InGameName      string    `json:"in_game_name"`
	Role            Role      `json:"role"`
	Money           int64     `json:"money"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		PhoneNumber:     u.PhoneNumber,
		InGameName:      u.InGameName,
		Role:            u.Role,
		Money:           u.Money,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// UserSummary is the compact shape returned on login and in rosters.
type UserSummary struct {
	ID              uuid.UUID `json:"id"`
	InGameName      string    `json:"in_game_name"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	Role            Role      `json:"role"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
}

func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		InGameName:      u.InGameName,
		PhoneNumber:     u.PhoneNumber,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
	}
}
