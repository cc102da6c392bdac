package mocks

import (
	"context"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	SaveFunc      func(ctx context.Context, p *domain.Product) error
	FindByIDFunc  func(ctx context.Context, id string) (*domain.Product, error)
	FindByIDsFunc func(ctx context.Context, ids []string) ([]domain.Product, error)
	FindAllFunc   func(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	UpdateFunc    func(ctx context.Context, p *domain.Product) error
	DeleteFunc    func(ctx context.Context, id string) error
	PingFunc      func(ctx context.Context) error
}

func (m *MockProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return []domain.Product{}, nil
}

func (m *MockProductRepository) FindAll(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, q)
	}
	return []domain.Product{}, nil
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProductRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	CreateFunc   func(ctx context.Context, o *domain.Order) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
	FindAllFunc  func(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error)
	UpdateFunc   func(ctx context.Context, o *domain.Order) error
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindAll(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, q)
	}
	return []domain.Order{}, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, o *domain.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, o)
	}
	return nil
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	CreateFunc   func(ctx context.Context, r *domain.Review) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Review, error)
	FindAllFunc  func(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error)
	UpdateFunc   func(ctx context.Context, r *domain.Review) error
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReviewRepository) FindAll(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, q)
	}
	return []domain.Review{}, nil
}

func (m *MockReviewRepository) Update(ctx context.Context, r *domain.Review) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r)
	}
	return nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
