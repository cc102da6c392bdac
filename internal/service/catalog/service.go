package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/adapter/cache"
	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

const productCacheTTL = 10 * time.Minute

type Service struct {
	repo  ports.ProductRepository
	cache ports.Cache
	mq    queue.MessageQueue
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo ports.ProductRepository, c ports.Cache, mq queue.MessageQueue, log *zap.Logger) ports.CatalogService {
	return &Service{
		repo:  repo,
		cache: c,
		mq:    mq,
		log:   log,
		now:   time.Now,
	}
}

func cacheKey(id string) string {
	return "product:" + id
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if cached, err := cache.LoadJSON[domain.Product](ctx, s.cache, cacheKey(id)); err != nil {
		s.log.Warn("Product cache lookup failed", zap.String("product_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}

	if err := cache.StoreJSON(ctx, s.cache, cacheKey(id), p, productCacheTTL); err != nil {
		s.log.Warn("Failed to cache product", zap.String("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	return s.repo.FindAll(ctx, q.Normalize())
}

// ListForAction runs the listing a sort_and_filter directive asks for.
func (s *Service) ListForAction(ctx context.Context, action domain.Action) ([]domain.Product, error) {
	q, err := QueryForAction(action)
	if err != nil {
		return nil, err
	}
	return s.ListProducts(ctx, q)
}

// QueryForAction translates a sort_and_filter directive into a product query.
func QueryForAction(action domain.Action) (domain.ProductQuery, error) {
	if action.Kind != domain.ActionSortAndFilter {
		return domain.ProductQuery{}, fmt.Errorf("%w: %s", domain.ErrNotASortFilterCommand, action.Kind)
	}

	var q domain.ProductQuery
	if p := action.Params; p != nil {
		switch p.SortBy {
		case domain.SortByName:
			q.SortBy = domain.ProductSortName
		case domain.SortByPrice:
			q.SortBy = domain.ProductSortPrice
		}
		q.SortOrder = p.Order
	}
	if f := action.Filter(); f != nil {
		q.Category = f.Category
		q.PriceBelow = f.PriceLessThan
		q.Search = f.SearchTerm
	}
	return q.Normalize(), nil
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	now := s.now()
	created := *p
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.repo.Save(ctx, &created); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.log.Info("Product created", zap.String("product_id", created.ID), zap.String("name", created.Name))
	s.publish(domain.ProductCreated, created.ID, &created)
	return &created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrProductNotFound
	}

	updated := *p
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, id)

	s.log.Info("Product updated", zap.String("product_id", id))
	s.publish(domain.ProductUpdated, id, &updated)
	return &updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	s.log.Info("Product deleted", zap.String("product_id", id))
	s.publish(domain.ProductDeleted, id, nil)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn("Failed to invalidate cached product", zap.String("product_id", id), zap.Error(err))
	}
}

func (s *Service) publish(typ domain.ProductEventType, id string, p *domain.Product) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(domain.ProductEvent{Type: typ, ProductID: id, Product: p, Timestamp: s.now()})
	if err != nil {
		s.log.Error("Failed to encode catalog event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(queue.SubjectCatalogUpdated, data); err != nil {
		s.log.Warn("Failed to publish catalog event", zap.String("type", string(typ)), zap.Error(err))
	}
}

func validate(p *domain.Product) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: product is required", domain.ErrInvalidInput)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(p.Category) == "":
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	case p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	case p.StockQuantity < 0:
		return fmt.Errorf("%w: stock quantity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
