package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/mocks"
	"github.com/seu-repo/appliance-store/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

var catalog = map[string]domain.Product{
	"washer": {ID: "washer", Name: "Washer", Price: 499.99, StockQuantity: 5},
	"dryer":  {ID: "dryer", Name: "Dryer", Price: 450.10, StockQuantity: 1},
}

func productRepo() *mocks.MockProductRepository {
	return &mocks.MockProductRepository{
		FindByIDsFunc: func(ctx context.Context, ids []string) ([]domain.Product, error) {
			var out []domain.Product
			for _, id := range ids {
				if p, ok := catalog[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

func validRequest(items ...ports.CheckoutItem) ports.CheckoutRequest {
	return ports.CheckoutRequest{
		CustomerName:    "Ann Smith",
		CustomerEmail:   "ann@example.com",
		ShippingAddress: "1 Main St, Springfield",
		Items:           items,
	}
}

func TestCheckout_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var created *domain.Order
	orders := &mocks.MockOrderRepository{
		CreateFunc: func(ctx context.Context, o *domain.Order) error {
			created = o
			return nil
		},
	}
	email := &mocks.MockEmailService{}
	mq := mocks.NewMockMessageQueue()
	svc := NewService(orders, productRepo(), email, mq, newTestLogger())

	// Act
	o, err := svc.Checkout(ctx, validRequest(
		ports.CheckoutItem{ProductID: "washer", Quantity: 1},
		ports.CheckoutItem{ProductID: "dryer", Quantity: 1},
		ports.CheckoutItem{ProductID: "washer", Quantity: 1},
	))

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil || created.ID != o.ID {
		t.Fatal("expected order to be persisted")
	}
	if o.Status != domain.OrderStatusPending {
		t.Errorf("expected pending, got %s", o.Status)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected repeated products to merge into 2 lines, got %d", len(o.Items))
	}
	if o.Items[0].ProductID != "washer" || o.Items[0].Quantity != 2 {
		t.Errorf("unexpected first line %+v", o.Items[0])
	}
	if o.Total != 1450.08 {
		t.Errorf("expected total 1450.08, got %v", o.Total)
	}
	if len(email.Confirmations) != 1 || email.Confirmations[0] != o.ID {
		t.Errorf("expected confirmation email, got %v", email.Confirmations)
	}

	msgs := mq.Messages(queue.SubjectOrdersCreated)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 orders.created event, got %d", len(msgs))
	}
	var evt domain.OrderEvent
	if err := json.Unmarshal(msgs[0], &evt); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if evt.OrderID != o.ID || evt.Email != "ann@example.com" {
		t.Errorf("unexpected event %+v", evt)
	}
}

func TestCheckout_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  ports.CheckoutRequest
	}{
		{"no items", validRequest()},
		{"zero quantity", validRequest(ports.CheckoutItem{ProductID: "washer"})},
		{"no product id", validRequest(ports.CheckoutItem{Quantity: 1})},
		{"bad email", func() ports.CheckoutRequest {
			r := validRequest(ports.CheckoutItem{ProductID: "washer", Quantity: 1})
			r.CustomerEmail = "not-an-email"
			return r
		}()},
		{"no address", func() ports.CheckoutRequest {
			r := validRequest(ports.CheckoutItem{ProductID: "washer", Quantity: 1})
			r.ShippingAddress = "  "
			return r
		}()},
		{"no name", func() ports.CheckoutRequest {
			r := validRequest(ports.CheckoutItem{ProductID: "washer", Quantity: 1})
			r.CustomerName = ""
			return r
		}()},
	}

	svc := NewService(&mocks.MockOrderRepository{}, productRepo(), nil, nil, newTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCheckout_UnknownProduct(t *testing.T) {
	svc := NewService(&mocks.MockOrderRepository{}, productRepo(), nil, nil, newTestLogger())

	_, err := svc.Checkout(context.Background(), validRequest(ports.CheckoutItem{ProductID: "toaster", Quantity: 1}))

	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	orders := &mocks.MockOrderRepository{
		CreateFunc: func(ctx context.Context, o *domain.Order) error {
			t.Error("order must not be created")
			return nil
		},
	}
	svc := NewService(orders, productRepo(), nil, nil, newTestLogger())

	_, err := svc.Checkout(context.Background(), validRequest(
		ports.CheckoutItem{ProductID: "dryer", Quantity: 1},
		ports.CheckoutItem{ProductID: "dryer", Quantity: 1},
	))

	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCheckout_StockRaceSurfacesRepositoryError(t *testing.T) {
	orders := &mocks.MockOrderRepository{
		CreateFunc: func(ctx context.Context, o *domain.Order) error {
			return domain.ErrInsufficientStock
		},
	}
	email := &mocks.MockEmailService{}
	svc := NewService(orders, productRepo(), email, nil, newTestLogger())

	_, err := svc.Checkout(context.Background(), validRequest(ports.CheckoutItem{ProductID: "washer", Quantity: 1}))

	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	if len(email.Confirmations) != 0 {
		t.Error("no confirmation should be sent for a failed order")
	}
}

func TestCheckout_EmailFailureDoesNotFailOrder(t *testing.T) {
	email := &mocks.MockEmailService{
		SendOrderConfirmationFunc: func(ctx context.Context, order *domain.Order) error {
			return errors.New("sendgrid: 503")
		},
	}
	svc := NewService(&mocks.MockOrderRepository{}, productRepo(), email, nil, newTestLogger())

	o, err := svc.Checkout(context.Background(), validRequest(ports.CheckoutItem{ProductID: "washer", Quantity: 1}))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o == nil {
		t.Fatal("expected order")
	}
}

func orderRepoWith(o *domain.Order) *mocks.MockOrderRepository {
	return &mocks.MockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
			if id == o.ID {
				cp := *o
				return &cp, nil
			}
			return nil, nil
		},
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr error
	}{
		{domain.OrderStatusPending, domain.OrderStatusProcessing, nil},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, nil},
		{domain.OrderStatusProcessing, domain.OrderStatusShipped, nil},
		{domain.OrderStatusShipped, domain.OrderStatusDelivered, nil},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, domain.ErrInvalidStatusChange},
		{domain.OrderStatusShipped, domain.OrderStatusCancelled, domain.ErrInvalidStatusChange},
		{domain.OrderStatusDelivered, domain.OrderStatusPending, domain.ErrInvalidStatusChange},
		{domain.OrderStatusCancelled, domain.OrderStatusProcessing, domain.ErrInvalidStatusChange},
		{domain.OrderStatusPending, "lost", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			repo := orderRepoWith(&domain.Order{ID: "o-1", Status: tt.from})
			mq := mocks.NewMockMessageQueue()
			email := &mocks.MockEmailService{}
			svc := NewService(repo, productRepo(), email, mq, newTestLogger())

			o, err := svc.UpdateStatus(context.Background(), "o-1", tt.to)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if o.Status != tt.to {
				t.Errorf("expected %s, got %s", tt.to, o.Status)
			}
			if (tt.to == domain.OrderStatusDelivered) != (o.DeliveryDate != nil) {
				t.Errorf("delivery date set incorrectly: %v", o.DeliveryDate)
			}
			if n := len(mq.Messages(queue.SubjectOrdersStatus)); n != 1 {
				t.Errorf("expected 1 orders.status event, got %d", n)
			}
			if len(email.StatusUpdates) != 1 {
				t.Errorf("expected status email, got %v", email.StatusUpdates)
			}
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewService(&mocks.MockOrderRepository{}, productRepo(), nil, nil, newTestLogger())

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.OrderStatusShipped)

	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListOrders(t *testing.T) {
	var got domain.OrderQuery
	repo := &mocks.MockOrderRepository{
		FindAllFunc: func(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
			got = q
			return []domain.Order{{ID: "o-1"}}, nil
		},
	}
	svc := NewService(repo, productRepo(), nil, nil, newTestLogger())
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	orders, err := svc.ListOrders(context.Background(), domain.OrderQuery{Status: domain.OrderStatusShipped, From: &from})

	if err != nil || len(orders) != 1 {
		t.Fatalf("unexpected result %v %v", orders, err)
	}
	if got.Status != domain.OrderStatusShipped || got.From == nil {
		t.Errorf("query not forwarded: %+v", got)
	}

	if _, err := svc.ListOrders(context.Background(), domain.OrderQuery{Status: "bogus"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
