package products

import (
	"strings"
	"time"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/samber/lo"
)

// Product categories (closed enum).
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryHome        = "home"
	CategoryBeauty      = "beauty"
	CategorySports      = "sports"
	CategoryOther       = "other"
)

var categories = []string{
	CategoryElectronics, CategoryClothing, CategoryHome,
	CategoryBeauty, CategorySports, CategoryOther,
}

// ValidCategory reports whether category is part of the closed enum.
func ValidCategory(category string) bool {
	return lo.Contains(categories, category)
}

// Variant is a selectable product option, e.g. {color red} or {size medium}.
type Variant struct {
	Type            string  `dynamodbav:"type" json:"type"`
	Value           string  `dynamodbav:"value" json:"value"`
	AdditionalPrice float64 `dynamodbav:"additional_price" json:"additionalPrice"`
}

// Review is a customer review embedded in the product record.
type Review struct {
	CustomerEmail string    `dynamodbav:"customer_email" json:"customerEmail"`
	CustomerName  string    `dynamodbav:"customer_name" json:"customerName"`
	Rating        int       `dynamodbav:"rating" json:"rating"`
	Comment       string    `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"createdAt"`
}

// Ratings is the aggregate over embedded reviews.
type Ratings struct {
	Average float64 `dynamodbav:"average" json:"average"`
	Count   int     `dynamodbav:"count" json:"count"`
}

// Product is the item stored in the products DynamoDB table, keyed by SKU.
type Product struct {
	SKU             string       `dynamodbav:"sku" json:"sku"` // PK
	Name            string       `dynamodbav:"name" json:"name"`
	Description     string       `dynamodbav:"description" json:"description"`
	Price           float64      `dynamodbav:"price" json:"price"`
	Discount        float64      `dynamodbav:"discount" json:"discount"`
	DiscountedPrice float64      `dynamodbav:"discounted_price" json:"discountedPrice"`
	Category        string       `dynamodbav:"category" json:"category"`
	Stock           int          `dynamodbav:"stock" json:"stock"`
	Images          []images.Ref `dynamodbav:"images,omitempty" json:"images,omitempty"`
	Tags            []string     `dynamodbav:"tags,omitempty" json:"tags,omitempty"`
	Variants        []Variant    `dynamodbav:"variants,omitempty" json:"variants,omitempty"`
	Published       bool         `dynamodbav:"published" json:"published"`
	PublishedDate   *time.Time   `dynamodbav:"published_date,omitempty" json:"publishedDate,omitempty"`
	Ratings         Ratings      `dynamodbav:"ratings" json:"ratings"`
	Reviews         []Review     `dynamodbav:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt       time.Time    `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `dynamodbav:"updated_at" json:"updatedAt"`
}

// Recalculate refreshes the derived fields before every save:
// discountedPrice, the rating aggregate, and publishedDate (set once, on
// first publish).
func (p *Product) Recalculate(now time.Time) {
	p.DiscountedPrice = p.Price - (p.Price*p.Discount)/100

	if len(p.Reviews) == 0 {
		p.Ratings = Ratings{}
	} else {
		total := lo.SumBy(p.Reviews, func(r Review) float64 { return float64(r.Rating) })
		p.Ratings = Ratings{
			Average: total / float64(len(p.Reviews)),
			Count:   len(p.Reviews),
		}
	}

	if p.Published && p.PublishedDate == nil {
		p.PublishedDate = &now
	}
	if !p.Published {
		p.PublishedDate = nil
	}
}

// NormalizeTags trims tags and drops empty entries.
func NormalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) })
	return lo.Filter(trimmed, func(t string, _ int) bool { return t != "" })
}
