package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The browser client compares prices numerically, so decimals go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Discount bounds, in percent.
const (
	MinDiscount = 0
	MaxDiscount = 100
)

// Product represents a product in the catalog
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"productName" db:"name"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stockQuantity" db:"stock_quantity"`
	Image         string          `json:"image" db:"image"`
	Discount      int             `json:"discount" db:"discount"`
	CategoryID    int64           `json:"categoryId" db:"category_id"`
}

// Category represents a product category
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"categoryName" db:"name"`
}

// ProductView is the denormalized, client-ready projection of a product:
// the product joined with its category name and every review attached to it.
type ProductView struct {
	ID            int64           `json:"id"`
	Name          string          `json:"productName"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Image         string          `json:"image"`
	Discount      int             `json:"discount"`
	CategoryName  string          `json:"categoryName"`
	Reviews       []ReviewSnippet `json:"reviews"`
}

// ReviewSnippet is the part of a review embedded in a ProductView.
type ReviewSnippet struct {
	Rating  int     `json:"reviewRate"`
	Comment *string `json:"comment"`
	Status  string  `json:"status"`
}

// DiscountResult is returned after a discount has been applied.
type DiscountResult struct {
	ProductID int64 `json:"id"`
	Discount  int   `json:"discount"`
}

// ValidDiscount reports whether pct is an acceptable discount percentage.
func ValidDiscount(pct int) bool {
	return pct >= MinDiscount && pct <= MaxDiscount
}
