package health

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/health")
	g.Get("/live", h.Live)
	g.Get("/ready", h.Ready)
}

func (h *Handler) Live(c *fiber.Ctx) error {
	return c.JSON(h.service.Live())
}

func (h *Handler) Ready(c *fiber.Ctx) error {
	resp := h.service.Ready(c.UserContext())
	status := fiber.StatusOK
	if !resp.Ready {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
