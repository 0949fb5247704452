package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func catalogFixture() []Product {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []Product{
		{SKU: "p-1", Name: "Wireless Mouse", Description: "ergonomic", Category: CategoryElectronics, Price: 30, Tags: []string{"office"}, Published: true, CreatedAt: base},
		{SKU: "p-2", Name: "Running Shoes", Description: "lightweight trainers", Category: CategorySports, Price: 80, Discount: 50, Tags: []string{"running"}, Published: true, CreatedAt: base.Add(time.Hour)},
		{SKU: "p-3", Name: "Desk Lamp", Description: "warm light for the office", Category: CategoryHome, Price: 45, Published: false, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range list {
		list[i].Recalculate(base)
	}
	return list
}

func TestFilterSortSearchMatchesNameDescriptionAndTags(t *testing.T) {
	list := catalogFixture()

	require.Len(t, FilterSort(list, ListQuery{Search: "mouse"}), 1)
	require.Len(t, FilterSort(list, ListQuery{Search: "office"}), 2) // description + tag
	require.Len(t, FilterSort(list, ListQuery{Search: "OFFICE"}), 2)
	require.Empty(t, FilterSort(list, ListQuery{Search: "keyboard"}))
}

func TestFilterSortCategoryAndPublished(t *testing.T) {
	list := catalogFixture()

	got := FilterSort(list, ListQuery{Category: "sports"})
	require.Len(t, got, 1)
	require.Equal(t, "p-2", got[0].SKU)

	published := true
	require.Len(t, FilterSort(list, ListQuery{Published: &published}), 2)
}

func TestFilterSortPriceRangeUsesDiscountedPrice(t *testing.T) {
	list := catalogFixture()

	// p-2 lists at 80 but discounts to 40
	got := FilterSort(list, ListQuery{MinPrice: 35, MaxPrice: 50})
	skus := []string{}
	for _, p := range got {
		skus = append(skus, p.SKU)
	}
	require.ElementsMatch(t, []string{"p-2", "p-3"}, skus)
}

func TestFilterSortOrdering(t *testing.T) {
	list := catalogFixture()

	byPrice := FilterSort(list, ListQuery{SortBy: "price"})
	require.Equal(t, "p-1", byPrice[0].SKU)
	require.Equal(t, "p-2", byPrice[2].SKU)

	byPriceDesc := FilterSort(list, ListQuery{SortBy: "-price"})
	require.Equal(t, "p-2", byPriceDesc[0].SKU)

	newestFirst := FilterSort(list, ListQuery{SortBy: "-createdAt"})
	require.Equal(t, "p-3", newestFirst[0].SKU)
}

func TestPaginate(t *testing.T) {
	list := catalogFixture()

	page, info := Paginate(list, 1, 2)
	require.Len(t, page, 2)
	require.Equal(t, 2, info.TotalPages)
	require.Equal(t, 3, info.TotalItems)

	page, _ = Paginate(list, 2, 2)
	require.Len(t, page, 1)

	page, info = Paginate(list, 5, 2)
	require.Empty(t, page)
	require.Equal(t, 5, info.CurrentPage)
}
