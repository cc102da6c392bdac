package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service ports.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, log: log}
}

func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/reviews")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req ports.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	r, err := h.service.CreateReview(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	q := domain.ReviewQuery{
		ProductID: c.Query("productId"),
		UserID:    c.Query("userId"),
	}
	if raw := c.Query("rating"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || !domain.ValidRating(v) {
			return fiber.NewError(fiber.StatusBadRequest, "rating must be an integer from 1 to 5")
		}
		q.Rating = &v
	}
	if s := c.Query("sortBy"); s != "" {
		q.SortBy = domain.ReviewSortField(s)
		if !q.SortBy.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "sortBy must be rating or createdAt")
		}
	}
	if o := c.Query("sortOrder"); o != "" {
		q.SortOrder = domain.SortOrder(o)
		if q.SortOrder != domain.SortAsc && q.SortOrder != domain.SortDesc {
			return fiber.NewError(fiber.StatusBadRequest, "sortOrder must be asc or desc")
		}
	}

	reviews, err := h.service.ListReviews(c.UserContext(), q.Normalize())
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	r, err := h.service.GetReview(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	var req ports.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	r, err := h.service.UpdateReview(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteReview(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": true})
}
