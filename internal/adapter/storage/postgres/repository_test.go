//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/appliance-store/internal/domain"
)

type testDB struct {
	gorm *gorm.DB
	raw  *sql.DB
}

func setupDB(t *testing.T) testDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("store_test"),
		tcpostgres.WithUsername("store"),
		tcpostgres.WithPassword("store_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewConnection(Options{URL: url, MaxOpenConns: 5}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { Close(db) })

	raw, err := sql.Open("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return testDB{gorm: db, raw: raw}
}

func seedProduct(t *testing.T, repo *ProductRepository, name, category string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   name + " for the modern home",
		Price:         price,
		Category:      category,
		StockQuantity: stock,
		Specs:         map[string]string{"brand": "Acme"},
	}
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestProductRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepository(db.gorm, zap.NewNop()).(*ProductRepository)
	ctx := context.Background()

	fridge := seedProduct(t, repo, "Fridge", "Refrigerators", 899, 3)
	kettle := seedProduct(t, repo, "Kettle", "Kitchen", 39.99, 0)
	toaster := seedProduct(t, repo, "Toaster 50%", "Kitchen", 49, 10)

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, fridge.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Acme", got.Specs["brand"])

		missing, err := repo.FindByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FindAll filters and sorts", func(t *testing.T) {
		below := 50.0
		got, err := repo.FindAll(ctx, domain.ProductQuery{PriceBelow: &below, SortBy: domain.ProductSortPrice, SortOrder: domain.SortAsc})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, kettle.ID, got[0].ID)
		assert.Equal(t, toaster.ID, got[1].ID)

		got, err = repo.FindAll(ctx, domain.ProductQuery{Category: "kitchen"})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		available := true
		got, err = repo.FindAll(ctx, domain.ProductQuery{Category: "Kitchen", Available: &available})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, toaster.ID, got[0].ID)

		got, err = repo.FindAll(ctx, domain.ProductQuery{Search: "50%"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, toaster.ID, got[0].ID)

		got, err = repo.FindAll(ctx, domain.ProductQuery{SortBy: domain.ProductSortName, SortOrder: domain.SortDesc, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, toaster.ID, got[0].ID)
	})

	t.Run("Update and Delete", func(t *testing.T) {
		fridge.Price = 799
		require.NoError(t, repo.Update(ctx, fridge))

		var price float64
		require.NoError(t, db.raw.QueryRowContext(ctx, `SELECT price FROM products WHERE id = $1`, fridge.ID).Scan(&price))
		assert.Equal(t, 799.0, price)

		require.NoError(t, repo.Delete(ctx, kettle.ID))
		assert.ErrorIs(t, repo.Delete(ctx, kettle.ID), domain.ErrProductNotFound)
		assert.ErrorIs(t, repo.Update(ctx, kettle), domain.ErrProductNotFound)
	})

	assert.NoError(t, repo.Ping(ctx))
}

func TestOrderRepository_CreateDecrementsStock(t *testing.T) {
	db := setupDB(t)
	products := NewProductRepository(db.gorm, zap.NewNop()).(*ProductRepository)
	orders := NewOrderRepository(db.gorm, zap.NewNop())
	ctx := context.Background()

	washer := seedProduct(t, products, "Washer", "Laundry", 500, 2)
	dryer := seedProduct(t, products, "Dryer", "Laundry", 450, 1)

	newOrder := func(qty int) *domain.Order {
		return &domain.Order{
			ID:              uuid.NewString(),
			CustomerName:    "Ann",
			CustomerEmail:   "ann@example.com",
			ShippingAddress: "1 Main St",
			Status:          domain.OrderStatusPending,
			OrderDate:       time.Now(),
			Items: []domain.OrderItem{
				{ProductID: washer.ID, Name: washer.Name, Price: washer.Price, Quantity: qty},
				{ProductID: dryer.ID, Name: dryer.Name, Price: dryer.Price, Quantity: 1},
			},
		}
	}

	first := newOrder(1)
	require.NoError(t, orders.Create(ctx, first))

	// the dryer is sold out now, so the washer must not be decremented either
	err := orders.Create(ctx, newOrder(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var washerStock, dryerStock int
	require.NoError(t, db.raw.QueryRowContext(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, washer.ID).Scan(&washerStock))
	require.NoError(t, db.raw.QueryRowContext(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, dryer.ID).Scan(&dryerStock))
	assert.Equal(t, 1, washerStock)
	assert.Equal(t, 0, dryerStock)

	var count int
	require.NoError(t, db.raw.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count))
	assert.Equal(t, 1, count)

	got, err := orders.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	got.Status = domain.OrderStatusProcessing
	require.NoError(t, orders.Update(ctx, got))

	list, err := orders.FindAll(ctx, domain.OrderQuery{Status: domain.OrderStatusProcessing, Email: "ANN@example.com"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestReviewRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewReviewRepository(db.gorm, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	review := func(product, user, order string, rating int, age time.Duration) *domain.Review {
		r := &domain.Review{
			ID:        uuid.NewString(),
			ProductID: product,
			UserID:    user,
			OrderID:   order,
			Rating:    rating,
			Comment:   "works",
			CreatedAt: base.Add(-age),
			UpdatedAt: base.Add(-age),
		}
		require.NoError(t, repo.Create(ctx, r))
		return r
	}
	oldest := review("fridge", "ana", "o1", 5, 3*time.Hour)
	review("fridge", "bia", "o2", 2, 2*time.Hour)
	newest := review("washer", "ana", "o1", 4, time.Hour)

	t.Run("DuplicatePurchaseReview", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Review{ID: uuid.NewString(), ProductID: "fridge", UserID: "ana", OrderID: "o1", Rating: 1})
		assert.ErrorIs(t, err, domain.ErrDuplicateReview)

		// Same product from a different order is a separate purchase.
		require.NoError(t, repo.Create(ctx, &domain.Review{ID: uuid.NewString(), ProductID: "fridge", UserID: "ana", OrderID: "o9", Rating: 3}))
	})

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, oldest.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 5, got.Rating)

		missing, err := repo.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FilterAndSort", func(t *testing.T) {
		all, err := repo.FindAll(ctx, domain.ReviewQuery{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "o9", all[0].OrderID, "newest first by default")

		byUser, err := repo.FindAll(ctx, domain.ReviewQuery{UserID: "ana", ProductID: "washer"})
		require.NoError(t, err)
		require.Len(t, byUser, 1)
		assert.Equal(t, newest.ID, byUser[0].ID)

		two := 2
		low, err := repo.FindAll(ctx, domain.ReviewQuery{Rating: &two})
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "bia", low[0].UserID)

		ranked, err := repo.FindAll(ctx, domain.ReviewQuery{ProductID: "fridge", SortBy: domain.ReviewSortRating, SortOrder: domain.SortAsc})
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, []int{2, 3, 5}, []int{ranked[0].Rating, ranked[1].Rating, ranked[2].Rating})
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		oldest.Rating = 1
		oldest.Comment = "stopped cooling"
		oldest.UpdatedAt = base
		require.NoError(t, repo.Update(ctx, oldest))

		got, err := repo.FindByID(ctx, oldest.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Rating)
		assert.Equal(t, "stopped cooling", got.Comment)
		assert.True(t, got.CreatedAt.Equal(base.Add(-3*time.Hour)))

		assert.ErrorIs(t, repo.Update(ctx, &domain.Review{ID: "missing", Rating: 3}), domain.ErrReviewNotFound)

		require.NoError(t, repo.Delete(ctx, oldest.ID))
		assert.ErrorIs(t, repo.Delete(ctx, oldest.ID), domain.ErrReviewNotFound)
	})

	t.Run("RatingCheck", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Review{ID: uuid.NewString(), ProductID: "oven", UserID: "ana", OrderID: "o3", Rating: 7})
		assert.Error(t, err)
	})
}
