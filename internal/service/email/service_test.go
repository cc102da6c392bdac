package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// MockProvider records messages instead of sending them
type MockProvider struct {
	SentEmails []MockEmail
	FailError  error
}

type MockEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m *MockProvider) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if m.FailError != nil {
		return m.FailError
	}
	m.SentEmails = append(m.SentEmails, MockEmail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:              "3f1c2a9b-7d6e-4c1a-9f00-123456789abc",
		CustomerName:    "Ann <Smith>",
		CustomerEmail:   "ann@example.com",
		ShippingAddress: "1 Main St",
		Status:          domain.OrderStatusPending,
		Total:           949.98,
		Items: []domain.OrderItem{
			{ProductID: "washer", Name: "Washer", Price: 474.99, Quantity: 2},
		},
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	// Arrange
	provider := &MockProvider{}
	svc := newService(DefaultConfig(), provider, newTestLogger())

	// Act
	err := svc.SendOrderConfirmation(context.Background(), testOrder())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.SentEmails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(provider.SentEmails))
	}
	sent := provider.SentEmails[0]
	if sent.To != "ann@example.com" {
		t.Errorf("unexpected recipient %s", sent.To)
	}
	if sent.Subject != "Order 3f1c2a9b confirmed" {
		t.Errorf("unexpected subject %q", sent.Subject)
	}
	for _, want := range []string{"2 x Washer", "$949.98", "$949.98", "Ann &lt;Smith&gt;", "http://localhost:3000"} {
		if !strings.Contains(sent.HTML, want) {
			t.Errorf("html body missing %q", want)
		}
	}
	if !strings.Contains(sent.Text, "Total: $949.98") {
		t.Errorf("text body missing total: %s", sent.Text)
	}
}

func TestSendOrderStatusUpdate_Delivered(t *testing.T) {
	provider := &MockProvider{}
	svc := newService(DefaultConfig(), provider, newTestLogger())
	o := testOrder()
	o.Status = domain.OrderStatusDelivered
	delivered := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	o.DeliveryDate = &delivered

	if err := svc.SendOrderStatusUpdate(context.Background(), o); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sent := provider.SentEmails[0]
	if sent.Subject != "Order 3f1c2a9b is delivered" {
		t.Errorf("unexpected subject %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "Delivered on March 5, 2024.") {
		t.Error("expected delivery date in body")
	}
	if !strings.Contains(sent.HTML, "Your order was delivered.") {
		t.Error("expected delivered headline")
	}
}

func TestSend_ProviderError(t *testing.T) {
	provider := &MockProvider{FailError: errors.New("rate limited")}
	svc := newService(DefaultConfig(), provider, newTestLogger())

	err := svc.SendOrderConfirmation(context.Background(), testOrder())

	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestNewService_Providers(t *testing.T) {
	if _, err := NewService(Config{Provider: "sendgrid"}, newTestLogger()); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := NewService(Config{Provider: "pigeon"}, newTestLogger()); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewService(Config{Provider: "sendgrid", SendGridAPIKey: "SG.x"}, newTestLogger()); err != nil {
		t.Errorf("expected sendgrid provider, got %v", err)
	}

	svc, err := NewService(DefaultConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("expected log provider, got %v", err)
	}
	if err := svc.SendOrderConfirmation(context.Background(), testOrder()); err != nil {
		t.Errorf("log provider should never fail, got %v", err)
	}
}
