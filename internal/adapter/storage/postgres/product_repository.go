package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
)

var sortColumns = map[domain.ProductSortField]string{
	domain.ProductSortName:          "name",
	domain.ProductSortPrice:         "price",
	domain.ProductSortCategory:      "category",
	domain.ProductSortCreatedAt:     "created_at",
	domain.ProductSortStockQuantity: "stock_quantity",
}

type ProductRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProductRepository(db *gorm.DB, log *zap.Logger) ports.ProductRepository {
	return &ProductRepository{db: db, log: log}
}

func observe(op string, start time.Time) {
	telemetry.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) error {
	defer observe("product_save", time.Now())
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.log.Error("Failed to save product", zap.String("product_id", p.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	defer observe("product_find", time.Now())
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	defer observe("product_find_many", time.Now())
	products := []domain.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindAll(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	defer observe("product_list", time.Now())
	q = q.Normalize()

	tx := r.db.WithContext(ctx).Model(&domain.Product{})
	if q.Category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", q.Category)
	}
	if q.Name != "" {
		tx = tx.Where("name ILIKE ?", contains(q.Name))
	}
	if q.Description != "" {
		tx = tx.Where("description ILIKE ?", contains(q.Description))
	}
	if q.Search != "" {
		term := contains(q.Search)
		tx = tx.Where("(name ILIKE ? OR category ILIKE ? OR description ILIKE ?)", term, term, term)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if q.PriceBelow != nil {
		tx = tx.Where("price < ?", *q.PriceBelow)
	}
	if q.Available != nil {
		if *q.Available {
			tx = tx.Where("stock_quantity > 0")
		} else {
			tx = tx.Where("stock_quantity = 0")
		}
	}

	tx = tx.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sortColumns[q.SortBy]},
		Desc:   q.SortOrder == domain.SortDesc,
	}).Order("id")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	products := []domain.Product{}
	if err := tx.Find(&products).Error; err != nil {
		r.log.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	defer observe("product_update", time.Now())
	res := r.db.WithContext(ctx).Model(p).Select("*").Omit("created_at").Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer observe("product_delete", time.Now())
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains turns user text into an ILIKE substring pattern.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
