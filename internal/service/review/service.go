package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type Service struct {
	reviews  ports.ReviewRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(reviews ports.ReviewRepository, products ports.ProductRepository, orders ports.OrderRepository, log *zap.Logger) ports.ReviewService {
	return &Service{
		reviews:  reviews,
		products: products,
		orders:   orders,
		log:      log,
		now:      time.Now,
	}
}

// CreateReview accepts a review only for a product that is part of the
// referenced order.
func (s *Service) CreateReview(ctx context.Context, req ports.CreateReviewRequest) (*domain.Review, error) {
	userID := strings.TrimSpace(req.UserID)
	productID := strings.TrimSpace(req.ProductID)
	orderID := strings.TrimSpace(req.OrderID)
	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	case productID == "":
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidInput)
	case orderID == "":
		return nil, fmt.Errorf("%w: orderId is required", domain.ErrInvalidInput)
	case !domain.ValidRating(req.Rating):
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !containsProduct(o, productID) {
		return nil, fmt.Errorf("%w: order %s does not contain product %s", domain.ErrInvalidInput, orderID, productID)
	}

	now := s.now()
	r := &domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		OrderID:   orderID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("Review created",
		zap.String("review_id", r.ID),
		zap.String("product_id", r.ProductID),
		zap.Int("rating", r.Rating),
	)
	return r, nil
}

func containsProduct(o *domain.Order, productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Service) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrReviewNotFound
	}
	return r, nil
}

func (s *Service) ListReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	if q.Rating != nil && !domain.ValidRating(*q.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	return s.reviews.FindAll(ctx, q.Normalize())
}

func (s *Service) UpdateReview(ctx context.Context, id string, req ports.UpdateReviewRequest) (*domain.Review, error) {
	if req.Rating == nil && req.Comment == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if req.Rating != nil && !domain.ValidRating(*req.Rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	r, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Rating != nil {
		r.Rating = *req.Rating
	}
	if req.Comment != nil {
		r.Comment = strings.TrimSpace(*req.Comment)
	}
	r.UpdatedAt = s.now()

	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Review deleted", zap.String("review_id", id))
	return nil
}
