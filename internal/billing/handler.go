package billing

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/foodkart/food-order-backend/internal/order"
	"github.com/foodkart/food-order-backend/internal/user"
)

// Handler serves rendered bills for finalized orders.
type Handler struct {
	orders *order.Service
}

func NewHandler(orders *order.Service) *Handler {
	return &Handler{orders: orders}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders/:orderId/bill", h.getTextBill)
}

func (h *Handler) getTextBill(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	ord, err := h.orders.Get(c.Params("orderId"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if ord.CustomerID != userID && !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(TextBill(ord))
}
