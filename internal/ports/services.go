package ports

import (
	"context"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// AssistantService resolves spoken or typed shopper requests into UI directives.
type AssistantService interface {
	HandleQuery(ctx context.Context, query string) domain.AssistantResult
	Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error)
	HandleSpeech(ctx context.Context, audio []byte, mimeType string) domain.SpeechResult
	Commands() []domain.AssistantCommand
}

type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	ListForAction(ctx context.Context, action domain.Action) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CheckoutItem is a requested order line before pricing.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	ShippingAddress string         `json:"shippingAddress"`
	Items           []CheckoutItem `json:"items"`
}

type OrderService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type CreateReviewRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	OrderID   string `json:"orderId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest changes the rating, the comment, or both. The product,
// order and author of a review are fixed.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	ListReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error)
	UpdateReview(ctx context.Context, id string, req UpdateReviewRequest) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// EmailService sends the transactional mail of the store.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, order *domain.Order) error
	SendOrderStatusUpdate(ctx context.Context, order *domain.Order) error
}
