package repository

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildProductViewQuery_NoFilter(t *testing.T) {
	query, args := buildProductViewQuery(ProductFilter{})

	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LEFT JOIN reviews r ON r.product_id = p.id")
	assert.True(t, strings.HasSuffix(query, "ORDER BY p.id ASC, r.id ASC"))
}

func TestBuildProductViewQuery_AllFilters(t *testing.T) {
	id := int64(3)
	category := "Electronics"
	minPrice := decimal.NewFromInt(10)
	maxPrice := decimal.NewFromInt(99)

	query, args := buildProductViewQuery(ProductFilter{
		ID:             &id,
		CategoryName:   &category,
		MinPrice:       &minPrice,
		MaxPrice:       &maxPrice,
		DiscountedOnly: true,
	})

	assert.Contains(t, query, "WHERE p.id = $1 AND c.name = $2 AND p.price >= $3 AND p.price <= $4 AND p.discount > 0")
	assert.Equal(t, []interface{}{id, category, minPrice, maxPrice}, args)
}

func TestProperty_ProductViewPlaceholdersMatchArgs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every bound argument has exactly one placeholder", prop.ForAll(
		func(withID, withCategory, withMin, withMax, discounted bool) bool {
			var filter ProductFilter
			if withID {
				id := int64(1)
				filter.ID = &id
			}
			if withCategory {
				name := "Books"
				filter.CategoryName = &name
			}
			if withMin {
				min := decimal.Zero
				filter.MinPrice = &min
			}
			if withMax {
				max := decimal.NewFromInt(5)
				filter.MaxPrice = &max
			}
			filter.DiscountedOnly = discounted

			query, args := buildProductViewQuery(filter)

			for i := 1; i <= len(args); i++ {
				if strings.Count(query, "$"+string(rune('0'+i))) != 1 {
					return false
				}
			}
			if strings.Contains(query, "$"+string(rune('0'+len(args)+1))) {
				return false
			}
			return strings.Contains(query, "p.discount > 0") == discounted
		},
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
