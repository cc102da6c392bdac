package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{db: db, log: log}
}

// Create reserves stock for every line and stores the order in one
// transaction. A line whose product cannot cover the quantity rolls back
// everything.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	defer observe("order_create", time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Updates(map[string]any{
					"stock_quantity": gorm.Expr("stock_quantity - ?", item.Quantity),
					"updated_at":     time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, item.Name)
			}
		}
		if err := tx.Create(o).Error; err != nil {
			r.log.Error("Failed to create order", zap.String("order_id", o.ID), zap.Error(err))
			return err
		}
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	defer observe("order_find", time.Now())
	var o domain.Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	defer observe("order_list", time.Now())
	tx := r.db.WithContext(ctx).Model(&domain.Order{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Email != "" {
		tx = tx.Where("LOWER(customer_email) = LOWER(?)", q.Email)
	}
	if q.From != nil {
		tx = tx.Where("order_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("order_date <= ?", *q.To)
	}

	orders := []domain.Order{}
	err := tx.Order("order_date desc").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	defer observe("order_update", time.Now())
	res := r.db.WithContext(ctx).Model(o).Select("*").Omit("created_at").Updates(o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
