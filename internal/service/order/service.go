package order

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type Service struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	email    ports.EmailService
	mq       queue.MessageQueue
	log      *zap.Logger
	now      func() time.Time
}

// NewService wires checkout. email and mq may be nil.
func NewService(orders ports.OrderRepository, products ports.ProductRepository, email ports.EmailService, mq queue.MessageQueue, log *zap.Logger) ports.OrderService {
	return &Service{
		orders:   orders,
		products: products,
		email:    email,
		mq:       mq,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Checkout(ctx context.Context, req ports.CheckoutRequest) (*domain.Order, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}
	lines := mergeLines(req.Items)

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var total float64
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, l.ProductID)
		}
		if p.StockQuantity < l.Quantity {
			return nil, fmt.Errorf("%w: %s has %d left", domain.ErrInsufficientStock, p.Name, p.StockQuantity)
		}
		item := domain.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: l.Quantity}
		items = append(items, item)
		total += item.Subtotal()
	}

	now := s.now()
	o := &domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		Items:           items,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Status:          domain.OrderStatusPending,
		Total:           math.Round(total*100) / 100,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The repository re-checks stock inside its transaction; the check above
	// only produces a friendlier error for the common case.
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	telemetry.OrdersTotal.WithLabelValues(string(o.Status)).Inc()
	s.log.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total),
	)
	s.publish(queue.SubjectOrdersCreated, o)

	if s.email != nil {
		if err := s.email.SendOrderConfirmation(ctx, o); err != nil {
			s.log.Warn("Failed to send order confirmation", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, q.Status)
	}
	return s.orders.FindAll(ctx, q)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusChange, o.Status, status)
	}

	now := s.now()
	previous := o.Status
	o.Status = status
	o.UpdatedAt = now
	if status == domain.OrderStatusDelivered {
		o.DeliveryDate = &now
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	telemetry.OrdersTotal.WithLabelValues(string(status)).Inc()
	s.log.Info("Order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	s.publish(queue.SubjectOrdersStatus, o)

	if s.email != nil {
		if err := s.email.SendOrderStatusUpdate(ctx, o); err != nil {
			s.log.Warn("Failed to send status update", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

func (s *Service) publish(subject string, o *domain.Order) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(domain.OrderEvent{
		OrderID:   o.ID,
		Status:    o.Status,
		Total:     o.Total,
		Email:     o.CustomerEmail,
		Timestamp: s.now(),
	})
	if err != nil {
		s.log.Error("Failed to encode order event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(subject, data); err != nil {
		s.log.Warn("Failed to publish order event", zap.String("subject", subject), zap.Error(err))
	}
}

func validateCheckout(req ports.CheckoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.CustomerEmail)); err != nil {
		return fmt.Errorf("%w: customer email: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: an order needs at least one item", domain.ErrInvalidInput)
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: item without product id", domain.ErrInvalidInput)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity of %s must be at least 1", domain.ErrInvalidInput, it.ProductID)
		}
	}
	return nil
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(items []ports.CheckoutItem) []ports.CheckoutItem {
	idx := make(map[string]int, len(items))
	out := make([]ports.CheckoutItem, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
