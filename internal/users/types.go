package users

import (
	"time"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
)

// Staff roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Account lifecycle statuses, shared with customers.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// User is a staff account stored in the users DynamoDB table. Credential and
// token material never serializes to JSON.
type User struct {
	Email        string      `dynamodbav:"email" json:"email"` // PK
	Username     string      `dynamodbav:"username" json:"username"`
	PasswordHash string      `dynamodbav:"password_hash" json:"-"`
	Role         string      `dynamodbav:"role" json:"role"` // admin | manager | staff
	FullName     string      `dynamodbav:"fullname,omitempty" json:"fullname,omitempty"`
	PhoneNumber  string      `dynamodbav:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	Avatar       *images.Ref `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Status       string      `dynamodbav:"status" json:"status"`
	DateJoined   time.Time   `dynamodbav:"date_joined" json:"dateJoined"`
	UpdatedAt    time.Time   `dynamodbav:"updated_at" json:"updatedAt"`

	EmailVerified         bool      `dynamodbav:"email_verified" json:"emailVerified"`
	VerificationTokenHash string    `dynamodbav:"verification_token_hash,omitempty" json:"-"`
	VerificationExpiresAt time.Time `dynamodbav:"verification_expires_at,omitempty" json:"-"`
	ResetTokenHash        string    `dynamodbav:"reset_token_hash,omitempty" json:"-"`
	ResetExpiresAt        time.Time `dynamodbav:"reset_expires_at,omitempty" json:"-"`
}

// ValidRole reports whether role is one of the staff roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleStaff
}

// AvatarURL returns the avatar URL or "" when unset.
func (u *User) AvatarURL() string {
	if u.Avatar == nil {
		return ""
	}
	return u.Avatar.URL
}
