package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type OrderHandler struct {
	service ports.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service ports.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, log: log}
}

func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/orders")
	g.Post("/", h.Checkout)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id/status", h.UpdateStatus)
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req ports.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	o, err := h.service.Checkout(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	q := domain.OrderQuery{
		Status: domain.OrderStatus(c.Query("status")),
		Email:  c.Query("email"),
	}
	var err error
	if q.From, err = optionalTime(c, "from"); err != nil {
		return err
	}
	if q.To, err = optionalTime(c, "to"); err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	o, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func optionalTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse(time.DateOnly, raw); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be an RFC 3339 timestamp or a date")
		}
	}
	return &t, nil
}
