package orders

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods.
const (
	MethodTransfer = "Transfer"
	MethodCard     = "Card"
)

// Refund statuses.
const (
	RefundPending   = "pending"
	RefundProcessed = "processed"
	RefundRejected  = "rejected"
)

// transitions is the explicit allowed-transitions table: forward-only along
// the fulfilment chain, with cancelled/refunded reachable from any
// non-terminal state. delivered, cancelled and refunded are terminal.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded},
	StatusShipped:    {StatusDelivered, StatusCancelled, StatusRefunded},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	return lo.Contains(transitions[from], to)
}

// ValidStatus reports whether status is part of the order status enum.
func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// Item is a line item: a snapshot of the product at order time, not a live
// join against the catalog.
type Item struct {
	SKU      string  `dynamodbav:"sku" json:"sku"`
	Name     string  `dynamodbav:"name" json:"name"`
	Price    float64 `dynamodbav:"price" json:"price"`
	Quantity int     `dynamodbav:"quantity" json:"quantity"`
	Variant  string  `dynamodbav:"variant,omitempty" json:"variant,omitempty"`
}

// Refund is the refund sub-record opened on cancellation.
type Refund struct {
	Amount float64 `dynamodbav:"amount" json:"amount"`
	Status string  `dynamodbav:"status" json:"status"`
	Reason string  `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
}

// Address is the shipping address snapshot captured at checkout.
type Address struct {
	Street  string `dynamodbav:"street" json:"street"`
	City    string `dynamodbav:"city" json:"city"`
	State   string `dynamodbav:"state" json:"state"`
	ZipCode string `dynamodbav:"zip_code" json:"zipCode"`
	Country string `dynamodbav:"country" json:"country"`
}

// Order is the item stored in the orders DynamoDB table.
type Order struct {
	OrderID         string    `dynamodbav:"order_id" json:"orderId"` // PK
	InvoiceNumber   string    `dynamodbav:"invoice_number" json:"invoiceNumber"`
	CustomerEmail   string    `dynamodbav:"customer_email" json:"customerEmail"`
	Items           []Item    `dynamodbav:"items" json:"items"`
	TotalAmount     float64   `dynamodbav:"total_amount" json:"totalAmount"`
	ShippingAddress Address   `dynamodbav:"shipping_address" json:"shippingAddress"`
	TrackingNumber  string    `dynamodbav:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	Status          string    `dynamodbav:"status" json:"status"`
	PaymentMethod   string    `dynamodbav:"payment_method" json:"paymentMethod"`
	PaymentStatus   string    `dynamodbav:"payment_status" json:"paymentStatus"`
	Refund          *Refund   `dynamodbav:"refund,omitempty" json:"refund,omitempty"`
	OrderTime       time.Time `dynamodbav:"order_time" json:"orderTime"`
	CreatedAt       time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// TotalOf sums the line extensions.
func TotalOf(items []Item) float64 {
	return lo.SumBy(items, func(it Item) float64 { return it.Price * float64(it.Quantity) })
}

// NewInvoiceNumber generates a unique human-readable invoice id.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%03d", now.UnixMilli(), rand.Intn(1000))
}
