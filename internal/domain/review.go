package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a shopper's rating of a product bought in a given order. A
// shopper reviews each product of an order at most once.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ProductID string    `json:"productId" gorm:"not null;uniqueIndex:idx_reviews_product_user_order,priority:1"`
	UserID    string    `json:"userId" gorm:"not null;index;uniqueIndex:idx_reviews_product_user_order,priority:2"`
	OrderID   string    `json:"orderId" gorm:"not null;uniqueIndex:idx_reviews_product_user_order,priority:3"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

type ReviewSortField string

const (
	ReviewSortRating    ReviewSortField = "rating"
	ReviewSortCreatedAt ReviewSortField = "createdAt"
)

func (f ReviewSortField) Valid() bool {
	return f == ReviewSortRating || f == ReviewSortCreatedAt
}

// ReviewQuery filters a review listing. Newest reviews come first by default.
type ReviewQuery struct {
	ProductID string
	UserID    string
	Rating    *int
	SortBy    ReviewSortField
	SortOrder SortOrder
}

func (q ReviewQuery) Normalize() ReviewQuery {
	if !q.SortBy.Valid() {
		q.SortBy = ReviewSortCreatedAt
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}
