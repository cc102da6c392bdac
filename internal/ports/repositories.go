package ports

import (
	"context"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// ProductRepository persists the catalog. FindByID returns nil, nil when
// the product does not exist.
type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	FindAll(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// OrderRepository persists orders. Create stores the order and decrements
// the stock of every item atomically; it fails with domain.ErrInsufficientStock
// when any product cannot cover its quantity.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
}

// ReviewRepository persists reviews. Create fails with domain.ErrDuplicateReview
// when the shopper already reviewed the product for that order. FindByID
// returns nil, nil when the review does not exist.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindAll(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
}
