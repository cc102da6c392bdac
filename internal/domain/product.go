package domain

import (
	"time"
)

type Product struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	Name          string            `json:"name" gorm:"not null"`
	Description   string            `json:"description" gorm:"not null"`
	Price         float64           `json:"price" gorm:"not null;check:price >= 0"`
	Category      string            `json:"category" gorm:"index;not null"`
	StockQuantity int               `json:"stockQuantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	Images        []string          `json:"images" gorm:"serializer:json"`
	Specs         map[string]string `json:"specs" gorm:"serializer:json"` // e.g. {"brand": "Samsung", "color": "black"}
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ProductSortField whitelists the columns a listing may be sorted on.
type ProductSortField string

const (
	ProductSortName          ProductSortField = "name"
	ProductSortPrice         ProductSortField = "price"
	ProductSortCategory      ProductSortField = "category"
	ProductSortCreatedAt     ProductSortField = "createdAt"
	ProductSortStockQuantity ProductSortField = "stockQuantity"
)

func (f ProductSortField) Valid() bool {
	switch f {
	case ProductSortName, ProductSortPrice, ProductSortCategory, ProductSortCreatedAt, ProductSortStockQuantity:
		return true
	}
	return false
}

// ProductQuery filters and orders a product listing. Zero values mean "no filter".
type ProductQuery struct {
	Category    string
	Name        string
	Description string
	Search      string   // matches name or category
	MaxPrice    *float64 // price <= MaxPrice
	PriceBelow  *float64 // price < PriceBelow
	Available   *bool
	SortBy      ProductSortField
	SortOrder   SortOrder
	Limit       int
	Offset      int
}

// Normalize fills in the default ordering (newest first).
func (q ProductQuery) Normalize() ProductQuery {
	if !q.SortBy.Valid() {
		q.SortBy = ProductSortCreatedAt
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// ProductEventType names a catalog change broadcast to storefronts.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

type ProductEvent struct {
	Type      ProductEventType `json:"type"`
	ProductID string           `json:"productId"`
	Product   *Product         `json:"product,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
