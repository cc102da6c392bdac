package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

// Provider delivers a rendered message.
type Provider interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type Config struct {
	// Provider is "sendgrid" or "log".
	Provider       string
	FromEmail      string
	FromName       string
	SendGridAPIKey string
	// StoreURL is linked from every message.
	StoreURL string
}

func DefaultConfig() Config {
	return Config{
		Provider:  "log",
		FromEmail: "orders@appliance-store.local",
		FromName:  "Appliance Store",
		StoreURL:  "http://localhost:3000",
	}
}

type Service struct {
	cfg       Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

func NewService(cfg Config, log *zap.Logger) (ports.EmailService, error) {
	var provider Provider
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid api key is required")
		}
		provider = NewSendGridProvider(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	case "log", "":
		provider = NewLogProvider(log)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	return newService(cfg, provider, log), nil
}

func newService(cfg Config, provider Provider, log *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		provider: provider,
		templates: map[string]*template.Template{
			"order_confirmation": template.Must(template.New("order_confirmation").Funcs(funcs).Parse(layout + orderConfirmationBody)),
			"order_status":       template.Must(template.New("order_status").Funcs(funcs).Parse(layout + orderStatusBody)),
		},
		log: log,
	}
}

type orderView struct {
	StoreURL string
	Order    *domain.Order
	Headline string
}

func (s *Service) SendOrderConfirmation(ctx context.Context, o *domain.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", shortID(o.ID))
	return s.send(ctx, o, "order_confirmation", subject, orderView{
		StoreURL: s.cfg.StoreURL,
		Order:    o,
		Headline: "Thanks for your order!",
	})
}

func (s *Service) SendOrderStatusUpdate(ctx context.Context, o *domain.Order) error {
	subject := fmt.Sprintf("Order %s is %s", shortID(o.ID), o.Status)
	return s.send(ctx, o, "order_status", subject, orderView{
		StoreURL: s.cfg.StoreURL,
		Order:    o,
		Headline: statusHeadline(o.Status),
	})
}

func (s *Service) send(ctx context.Context, o *domain.Order, name, subject string, view orderView) error {
	var buf bytes.Buffer
	if err := s.templates[name].Execute(&buf, view); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	if err := s.provider.Send(ctx, o.CustomerEmail, subject, buf.String(), plainText(view)); err != nil {
		s.log.Error("Failed to send email",
			zap.String("template", name),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return fmt.Errorf("send %s: %w", name, err)
	}

	s.log.Info("Email sent",
		zap.String("template", name),
		zap.String("order_id", o.ID),
	)
	return nil
}

func statusHeadline(s domain.OrderStatus) string {
	switch s {
	case domain.OrderStatusProcessing:
		return "We are preparing your order."
	case domain.OrderStatusShipped:
		return "Your order is on its way."
	case domain.OrderStatusDelivered:
		return "Your order was delivered."
	case domain.OrderStatusCancelled:
		return "Your order was cancelled."
	default:
		return "Your order was updated."
	}
}

func plainText(v orderView) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n\nOrder %s (%s)\n", v.Headline, v.Order.ID, v.Order.Status)
	for _, it := range v.Order.Items {
		fmt.Fprintf(&b, "- %d x %s: $%.2f\n", it.Quantity, it.Name, it.Subtotal())
	}
	fmt.Fprintf(&b, "Total: $%.2f\n\n%s\n", v.Order.Total, v.StoreURL)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
