package products

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ListQuery captures the catalog listing filters.
type ListQuery struct {
	Search    string
	Category  string
	MinPrice  float64
	MaxPrice  float64 // 0 means unbounded
	Published *bool
	SortBy    string // field name, "-" prefix for descending
	Page      int
	Limit     int
}

// PageInfo is the pagination metadata returned alongside a listing.
type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// FilterSort applies the query's filters and sort order. Free-text search
// matches name, description and tags case-insensitively; the price range
// filters on the derived discounted price.
func FilterSort(list []Product, q ListQuery) []Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := lo.Filter(list, func(p Product, _ int) bool {
		if search != "" && !matchesSearch(p, search) {
			return false
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			return false
		}
		if p.DiscountedPrice < q.MinPrice {
			return false
		}
		if q.MaxPrice > 0 && p.DiscountedPrice > q.MaxPrice {
			return false
		}
		if q.Published != nil && p.Published != *q.Published {
			return false
		}
		return true
	})

	field := q.SortBy
	if field == "" {
		field = "createdAt"
	}
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	sort.SliceStable(out, func(i, j int) bool {
		less := lessByField(out[i], out[j], field)
		if desc {
			return lessByField(out[j], out[i], field)
		}
		return less
	})
	return out
}

func matchesSearch(p Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Description), search) {
		return true
	}
	return lo.SomeBy(p.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), search)
	})
}

func lessByField(a, b Product, field string) bool {
	switch field {
	case "price":
		return a.Price < b.Price
	case "discountedPrice":
		return a.DiscountedPrice < b.DiscountedPrice
	case "name":
		return a.Name < b.Name
	case "stock":
		return a.Stock < b.Stock
	case "ratings.average":
		return a.Ratings.Average < b.Ratings.Average
	default: // createdAt
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

// Paginate slices a filtered listing into the requested page (1-based).
func Paginate(list []Product, page, limit int) ([]Product, PageInfo) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(list)
	info := PageInfo{
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalItems:  total,
	}
	start := (page - 1) * limit
	if start >= total {
		return []Product{}, info
	}
	end := start + limit
	if end > total {
		end = total
	}
	return list[start:end], info
}
