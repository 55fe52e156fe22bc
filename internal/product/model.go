package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      int              `json:"discount"`
	Images        []string         `json:"images"`
	Description   string           `json:"description"`
	Benefits      []string         `json:"benefits"`
	Ingredients   string           `json:"ingredients,omitempty"`
	Usage         string           `json:"usage,omitempty"`
	InStock       bool             `json:"inStock"`
	Featured      bool             `json:"featured"`
	StockQuantity int              `json:"stockQuantity"`
	Rating        Rating           `json:"rating"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Rating is the review aggregate kept alongside the product row.
type Rating struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

type ListOptions struct {
	FeaturedOnly bool
	InStockOnly  bool
	Limit        int
}

type ProductInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Slug          string           `json:"slug" validate:"omitempty,max=220"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Discount      int              `json:"discount" validate:"gte=0,lte=100"`
	Images        []string         `json:"images" validate:"dive,required"`
	Description   string           `json:"description" validate:"required"`
	Benefits      []string         `json:"benefits"`
	Ingredients   string           `json:"ingredients"`
	Usage         string           `json:"usage"`
	InStock       *bool            `json:"inStock"`
	Featured      bool             `json:"featured"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0"`
}
