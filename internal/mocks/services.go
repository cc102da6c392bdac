package mocks

import (
	"context"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

// MockAssistantService is a mock implementation of AssistantService interface
type MockAssistantService struct {
	HandleQueryFunc  func(ctx context.Context, query string) domain.AssistantResult
	TranscribeFunc   func(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error)
	HandleSpeechFunc func(ctx context.Context, audio []byte, mimeType string) domain.SpeechResult
	CommandsFunc     func() []domain.AssistantCommand
}

func (m *MockAssistantService) HandleQuery(ctx context.Context, query string) domain.AssistantResult {
	if m.HandleQueryFunc != nil {
		return m.HandleQueryFunc(ctx, query)
	}
	return domain.AssistantResult{Action: domain.Unknown(query)}
}

func (m *MockAssistantService) Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, mimeType)
	}
	return domain.Transcription{}, nil
}

func (m *MockAssistantService) HandleSpeech(ctx context.Context, audio []byte, mimeType string) domain.SpeechResult {
	if m.HandleSpeechFunc != nil {
		return m.HandleSpeechFunc(ctx, audio, mimeType)
	}
	return domain.SpeechResult{Error: domain.NoSpeechMessage}
}

func (m *MockAssistantService) Commands() []domain.AssistantCommand {
	if m.CommandsFunc != nil {
		return m.CommandsFunc()
	}
	return nil
}

// MockCatalogService is a mock implementation of CatalogService interface
type MockCatalogService struct {
	GetProductFunc    func(ctx context.Context, id string) (*domain.Product, error)
	ListProductsFunc  func(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	ListForActionFunc func(ctx context.Context, action domain.Action) ([]domain.Product, error)
	CreateProductFunc func(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProductFunc func(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	DeleteProductFunc func(ctx context.Context, id string) error
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockCatalogService) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, q)
	}
	return []domain.Product{}, nil
}

func (m *MockCatalogService) ListForAction(ctx context.Context, action domain.Action) ([]domain.Product, error) {
	if m.ListForActionFunc != nil {
		return m.ListForActionFunc(ctx, action)
	}
	return []domain.Product{}, nil
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, p)
	}
	return p, nil
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, id, p)
	}
	return p, nil
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id string) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return nil
}

// MockOrderService is a mock implementation of OrderService interface
type MockOrderService struct {
	CheckoutFunc     func(ctx context.Context, req ports.CheckoutRequest) (*domain.Order, error)
	GetOrderFunc     func(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersFunc   func(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

func (m *MockOrderService) Checkout(ctx context.Context, req ports.CheckoutRequest) (*domain.Order, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, req)
	}
	return &domain.Order{}, nil
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderService) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, q)
	}
	return []domain.Order{}, nil
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, domain.ErrOrderNotFound
}

// MockReviewService is a mock implementation of ReviewService interface
type MockReviewService struct {
	CreateReviewFunc func(ctx context.Context, req ports.CreateReviewRequest) (*domain.Review, error)
	GetReviewFunc    func(ctx context.Context, id string) (*domain.Review, error)
	ListReviewsFunc  func(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error)
	UpdateReviewFunc func(ctx context.Context, id string, req ports.UpdateReviewRequest) (*domain.Review, error)
	DeleteReviewFunc func(ctx context.Context, id string) error
}

func (m *MockReviewService) CreateReview(ctx context.Context, req ports.CreateReviewRequest) (*domain.Review, error) {
	if m.CreateReviewFunc != nil {
		return m.CreateReviewFunc(ctx, req)
	}
	return &domain.Review{}, nil
}

func (m *MockReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	if m.GetReviewFunc != nil {
		return m.GetReviewFunc(ctx, id)
	}
	return nil, domain.ErrReviewNotFound
}

func (m *MockReviewService) ListReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, q)
	}
	return []domain.Review{}, nil
}

func (m *MockReviewService) UpdateReview(ctx context.Context, id string, req ports.UpdateReviewRequest) (*domain.Review, error) {
	if m.UpdateReviewFunc != nil {
		return m.UpdateReviewFunc(ctx, id, req)
	}
	return nil, domain.ErrReviewNotFound
}

func (m *MockReviewService) DeleteReview(ctx context.Context, id string) error {
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(ctx, id)
	}
	return domain.ErrReviewNotFound
}

// MockEmailService records the orders it was asked to mail about.
type MockEmailService struct {
	SendOrderConfirmationFunc func(ctx context.Context, order *domain.Order) error
	SendOrderStatusUpdateFunc func(ctx context.Context, order *domain.Order) error
	Confirmations             []string
	StatusUpdates             []string
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	m.Confirmations = append(m.Confirmations, order.ID)
	if m.SendOrderConfirmationFunc != nil {
		return m.SendOrderConfirmationFunc(ctx, order)
	}
	return nil
}

func (m *MockEmailService) SendOrderStatusUpdate(ctx context.Context, order *domain.Order) error {
	m.StatusUpdates = append(m.StatusUpdates, order.ID)
	if m.SendOrderStatusUpdateFunc != nil {
		return m.SendOrderStatusUpdateFunc(ctx, order)
	}
	return nil
}
