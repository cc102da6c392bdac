package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type ProductHandler struct {
	service ports.CatalogService
	log     *zap.Logger
}

func NewProductHandler(service ports.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/products")
	g.Get("/", h.List)
	g.Post("/for-action", h.ListForAction)
	g.Get("/:id", h.Get)
	g.Post("/", h.Create)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, err := parseProductQuery(c)
	if err != nil {
		return err
	}
	products, err := h.service.ListProducts(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// ListForAction lists the products an assistant directive asks for.
func (h *ProductHandler) ListForAction(c *fiber.Ctx) error {
	var action domain.Action
	if err := c.BodyParser(&action); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	products, err := h.service.ListForAction(c.UserContext(), action)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req domain.Product
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	p, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req domain.Product
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	p, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func parseProductQuery(c *fiber.Ctx) (domain.ProductQuery, error) {
	q := domain.ProductQuery{
		Category:    c.Query("category"),
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Search:      c.Query("search"),
	}

	var err error
	if q.MaxPrice, err = optionalPrice(c, "maxPrice"); err != nil {
		return q, err
	}
	if q.PriceBelow, err = optionalPrice(c, "priceBelow"); err != nil {
		return q, err
	}

	available := c.Query("available", c.Query("is_available"))
	if available != "" {
		v, err := strconv.ParseBool(available)
		if err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, "available must be true or false")
		}
		q.Available = &v
	}

	if s := c.Query("sortBy"); s != "" {
		q.SortBy = domain.ProductSortField(s)
		if !q.SortBy.Valid() {
			return q, fiber.NewError(fiber.StatusBadRequest, "sortBy must be one of name, price, category, createdAt, stockQuantity")
		}
	}
	if o := c.Query("sortOrder"); o != "" {
		q.SortOrder = domain.SortOrder(o)
		if q.SortOrder != domain.SortAsc && q.SortOrder != domain.SortDesc {
			return q, fiber.NewError(fiber.StatusBadRequest, "sortOrder must be asc or desc")
		}
	}

	q.Limit = c.QueryInt("limit")
	q.Offset = c.QueryInt("offset")
	return q.Normalize(), nil
}

func optionalPrice(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be a non-negative number")
	}
	return &v, nil
}
