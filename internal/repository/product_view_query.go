package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductFilter narrows the product views returned by ListViews. Nil fields
// and false flags do not filter.
type ProductFilter struct {
	ID             *int64
	CategoryName   *string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	DiscountedOnly bool
}

const productViewSelect = `
		SELECT p.id, p.name, p.description, p.price, p.stock_quantity, p.image, p.discount,
		       c.name, r.rating, r.comment, r.status
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN reviews r ON r.product_id = p.id`

// buildProductViewQuery renders the single product-view query for a filter.
// The left join keeps products without reviews; ordering by product then
// review id keeps pages stable across calls.
func buildProductViewQuery(filter ProductFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	add := func(format string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if filter.ID != nil {
		add("p.id = $%d", *filter.ID)
	}
	if filter.CategoryName != nil {
		add("c.name = $%d", *filter.CategoryName)
	}
	if filter.MinPrice != nil {
		add("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.DiscountedOnly {
		conditions = append(conditions, "p.discount > 0")
	}

	var b strings.Builder
	b.WriteString(productViewSelect)
	if len(conditions) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString("\n\t\tORDER BY p.id ASC, r.id ASC")

	return b.String(), args
}

// collectProductViews folds the flat join rows into one view per product,
// preserving row order.
func collectProductViews(rows *sql.Rows) ([]domain.ProductView, error) {
	views := []domain.ProductView{}
	index := make(map[int64]int)

	for rows.Next() {
		var (
			v       domain.ProductView
			rating  sql.NullInt32
			comment sql.NullString
			status  sql.NullString
		)
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Description,
			&v.Price,
			&v.StockQuantity,
			&v.Image,
			&v.Discount,
			&v.CategoryName,
			&rating,
			&comment,
			&status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product view: %w", err)
		}

		pos, seen := index[v.ID]
		if !seen {
			v.Reviews = []domain.ReviewSnippet{}
			views = append(views, v)
			pos = len(views) - 1
			index[v.ID] = pos
		}

		if rating.Valid {
			snippet := domain.ReviewSnippet{
				Rating: int(rating.Int32),
				Status: status.String,
			}
			if comment.Valid {
				c := comment.String
				snippet.Comment = &c
			}
			views[pos].Reviews = append(views[pos].Reviews, snippet)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product views: %w", err)
	}

	return views, nil
}
