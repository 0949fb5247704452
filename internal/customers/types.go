package customers

import (
	"time"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
)

// RoleCustomer is the only role in this identity space.
const RoleCustomer = "customer"

// Address is a shipping address.
type Address struct {
	Street  string `dynamodbav:"street" json:"street"`
	City    string `dynamodbav:"city" json:"city"`
	State   string `dynamodbav:"state" json:"state"`
	ZipCode string `dynamodbav:"zip_code" json:"zipCode"`
	Country string `dynamodbav:"country" json:"country"`
}

// Customer is a storefront account stored in the customers DynamoDB table.
// Credential and token material never serializes to JSON.
type Customer struct {
	Email           string      `dynamodbav:"email" json:"email"` // PK
	FullName        string      `dynamodbav:"fullname" json:"fullname"`
	PasswordHash    string      `dynamodbav:"password_hash" json:"-"`
	PhoneNumber     string      `dynamodbav:"phone_number" json:"phoneNumber"`
	ShippingAddress Address     `dynamodbav:"shipping_address" json:"shippingAddress"`
	Avatar          *images.Ref `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Status          string      `dynamodbav:"status" json:"status"`
	DateJoined      time.Time   `dynamodbav:"date_joined" json:"dateJoined"`
	UpdatedAt       time.Time   `dynamodbav:"updated_at" json:"updatedAt"`

	EmailVerified         bool      `dynamodbav:"email_verified" json:"emailVerified"`
	VerificationTokenHash string    `dynamodbav:"verification_token_hash,omitempty" json:"-"`
	VerificationExpiresAt time.Time `dynamodbav:"verification_expires_at,omitempty" json:"-"`
	ResetTokenHash        string    `dynamodbav:"reset_token_hash,omitempty" json:"-"`
	ResetExpiresAt        time.Time `dynamodbav:"reset_expires_at,omitempty" json:"-"`
}

// AvatarURL returns the avatar URL or "" when unset.
func (c *Customer) AvatarURL() string {
	if c.Avatar == nil {
		return ""
	}
	return c.Avatar.URL
}
