package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleManager  UserRole = "MANAGER"
	RoleCustomer UserRole = "CUSTOMER"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusDeleted  UserStatus = "DELETED"
)

// User is the acting-identity entity. This service only consumes identity;
// account issuance lives elsewhere.
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string     `json:"email" gorm:"not null;uniqueIndex"`
	FullName  *string    `json:"fullName,omitempty"`
	Role      UserRole   `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Status    UserStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
