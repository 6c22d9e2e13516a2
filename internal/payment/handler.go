package payment

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/foodkart/food-order-backend/internal/order"
	"github.com/foodkart/food-order-backend/internal/user"
)

// SignatureHeader carries the webhook body signature; webhook calls are
// authenticated by it alone, never by a session token.
const SignatureHeader = "X-Gateway-Signature"

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes must run before the JWT middleware is installed:
// the gateway calling the webhook has no user token.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/webhook", h.webhook)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/verify", h.verify)
}

func (h *Handler) verify(c *fiber.Ctx) error {
	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(VerificationRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.Verify(*payload)
	switch {
	case err == nil:
		return c.JSON(ord)
	case errors.Is(err, ErrSignatureMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payment signature"})
	case errors.Is(err, order.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found for verification"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func (h *Handler) webhook(c *fiber.Ctx) error {
	traceID := uuid.NewString()
	body := c.Body()
	signature := c.Get(SignatureHeader)
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing signature header"})
	}

	ord, applied, err := h.service.ProcessWebhook(body, signature)
	switch {
	case err == nil:
		if applied {
			fmt.Printf("webhook %s: order %s marked paid\n", traceID, ord.OrderID)
		}
		return c.SendStatus(fiber.StatusOK)
	case errors.Is(err, ErrSignatureMismatch):
		fmt.Printf("webhook %s: signature mismatch\n", traceID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid signature"})
	case errors.Is(err, ErrBadPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "malformed payload"})
	case errors.Is(err, order.ErrNotFound):
		// gateways retry deliveries; an unknown order is logged and
		// acknowledged so the retry loop stops
		fmt.Printf("webhook %s: order not found, ignoring delivery\n", traceID)
		return c.SendStatus(fiber.StatusOK)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
