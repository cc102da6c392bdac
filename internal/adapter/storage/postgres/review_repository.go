package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

var reviewSortColumns = map[domain.ReviewSortField]string{
	domain.ReviewSortRating:    "rating",
	domain.ReviewSortCreatedAt: "created_at",
}

type ReviewRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReviewRepository(db *gorm.DB, log *zap.Logger) ports.ReviewRepository {
	return &ReviewRepository{db: db, log: log}
}

// Create relies on the (product, user, order) unique index to reject a
// second review of the same purchase.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	defer observe("review_create", time.Now())
	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateReview
		}
		r.log.Error("Failed to create review", zap.String("review_id", rv.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	defer observe("review_find", time.Now())
	var rv domain.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) FindAll(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	defer observe("review_list", time.Now())
	q = q.Normalize()

	tx := r.db.WithContext(ctx).Model(&domain.Review{})
	if q.ProductID != "" {
		tx = tx.Where("product_id = ?", q.ProductID)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Rating != nil {
		tx = tx.Where("rating = ?", *q.Rating)
	}
	tx = tx.Order(clause.OrderByColumn{
		Column: clause.Column{Name: reviewSortColumns[q.SortBy]},
		Desc:   q.SortOrder == domain.SortDesc,
	}).Order("id")

	reviews := []domain.Review{}
	err := tx.Find(&reviews).Error
	return reviews, err
}

// Update writes the rating and comment only.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	defer observe("review_update", time.Now())
	res := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"updated_at": rv.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	defer observe("review_delete", time.Now())
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
