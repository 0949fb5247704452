package validation

import (
	"encoding/json"
	"strings"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/settings"
	"github.com/samber/lo"
)

// AddressPayload is a postal address as accepted on registration and checkout.
type AddressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// RegisterUserRequest is the payload for POST /api/auth/register.
type RegisterUserRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	FullName    string `json:"fullname" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty"`
	Avatar      string `json:"avatar" validate:"omitempty,cloudinary"`
}

// LoginRequest is the shared payload for staff and customer login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a password-reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the replacement password; the one-time token
// travels in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest is a partial staff-account update. Nil means unchanged.
type UpdateUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3"`
	FullName    *string `json:"fullname"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        *string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending active inactive suspended"`
	Avatar      *string `json:"avatar" validate:"omitempty,cloudinary"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

// RegisterCustomerRequest is the payload for POST /api/customers/register and
// for admin-created customers.
type RegisterCustomerRequest struct {
	FullName        string          `json:"fullname" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=8"`
	PhoneNumber     string          `json:"phoneNumber" validate:"omitempty"`
	ShippingAddress *AddressPayload `json:"shippingAddress"`
	Avatar          string          `json:"avatar" validate:"omitempty,cloudinary"`
}

// UpdateCustomerRequest is a partial customer update. Nil means unchanged.
type UpdateCustomerRequest struct {
	FullName        *string         `json:"fullname"`
	PhoneNumber     *string         `json:"phoneNumber"`
	ShippingAddress *AddressPayload `json:"shippingAddress"`
	Status          *string         `json:"status" validate:"omitempty,oneof=pending active inactive suspended"`
	Avatar          *string         `json:"avatar" validate:"omitempty,cloudinary"`
	Password        *string         `json:"password" validate:"omitempty,min=8"`
}

// TagList accepts either a JSON array of strings or a single comma-separated
// string, the two shapes the storefront sends.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	*t = lo.Filter(parts, func(p string, _ int) bool { return p != "" })
	return nil
}

// ImagePayload is one product image reference.
type ImagePayload struct {
	URL string `json:"url" validate:"required,cloudinary"`
}

// VariantPayload is one product variant option.
type VariantPayload struct {
	Type            string  `json:"type" validate:"required"`
	Value           string  `json:"value" validate:"required"`
	AdditionalPrice float64 `json:"additionalPrice" validate:"gte=0"`
}

// CreateProductRequest is the payload for POST /api/products.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       float64          `json:"price" validate:"required,gt=0"`
	Discount    float64          `json:"discount" validate:"gte=0,lte=100"`
	Category    string           `json:"category" validate:"required"`
	SKU         string           `json:"sku" validate:"required"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Images      []ImagePayload   `json:"images" validate:"omitempty,dive"`
	Tags        TagList          `json:"tags"`
	Variants    []VariantPayload `json:"variants" validate:"omitempty,dive"`
	Published   bool             `json:"published"`
}

// UpdateProductRequest is a partial product update. Nil means unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price" validate:"omitempty,gt=0"`
	Discount    *float64         `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Category    *string          `json:"category"`
	SKU         *string          `json:"sku"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Images      []ImagePayload   `json:"images" validate:"omitempty,dive"`
	Tags        *TagList         `json:"tags"`
	Variants    []VariantPayload `json:"variants" validate:"omitempty,dive"`
	Published   *bool            `json:"published"`
}

// ReviewRequest is the payload for POST /api/products/:sku/reviews.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// OrderItemPayload is one checkout line. Name and price are resolved
// server-side from the catalog, never trusted from the client.
type OrderItemPayload struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Variant  string `json:"variant"`
}

// CreateOrderRequest is the payload for POST /api/orders.
type CreateOrderRequest struct {
	Items           []OrderItemPayload `json:"items" validate:"required,min=1,dive"`
	ShippingAddress AddressPayload     `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=Transfer Card"`
}

// RefundPayload edits the refund sub-record on an order.
type RefundPayload struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Status string  `json:"status" validate:"required,oneof=pending processed rejected"`
	Reason string  `json:"reason"`
}

// UpdateOrderRequest is the admin/customer order mutation payload.
type UpdateOrderRequest struct {
	Status         *string        `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled refunded"`
	PaymentStatus  *string        `json:"paymentStatus" validate:"omitempty,oneof=pending completed failed"`
	TrackingNumber *string        `json:"trackingNumber"`
	Refund         *RefundPayload `json:"refund"`
	CancelReason   string         `json:"cancelReason"`
}

// StockAdjustRequest is the payload for PUT /api/orders/stock/:sku.
type StockAdjustRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SettingsRequest wraps the full settings record; required identity fields are
// enforced by a struct-level validation.
type SettingsRequest struct {
	settings.Settings
}
