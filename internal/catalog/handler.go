package catalog

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read-only menu endpoints. Catalog management lives in a
// separate admin surface and is not part of this service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/foods", h.listFoods)
	app.Get("/api/v1/foods/:id<[0-9]+>", h.getFood)
}

func (h *Handler) listFoods(c *fiber.Ctx) error {
	// optional ?ids=1,2,3 filter used by clients rendering carts
	if raw := c.Query("ids"); raw != "" {
		ids := make([]int, 0)
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid ids"})
			}
			ids = append(ids, id)
		}
		foods, err := h.service.ListByIDs(ids)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(foods)
	}

	foods, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(foods)
}

func (h *Handler) getFood(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	f, err := h.service.Get(id)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "food not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(f)
}
