package user

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func runWithClaims(t *testing.T, claims jwt.MapClaims, check func(c *fiber.Ctx)) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		check(c)
		return c.SendStatus(fiber.StatusOK)
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
}

func TestGetUserIDFromCtx(t *testing.T) {
	// JSON numbers decode to float64; other token producers may use ints
	// or strings
	cases := []jwt.MapClaims{
		{"user_id": float64(42)},
		{"user_id": 42},
		{"user_id": int64(42)},
		{"user_id": "42"},
	}
	for _, claims := range cases {
		runWithClaims(t, claims, func(c *fiber.Ctx) {
			id, err := GetUserIDFromCtx(c)
			if err != nil {
				t.Errorf("claims %v: unexpected error %v", claims, err)
			}
			if id != 42 {
				t.Errorf("claims %v: expected 42, got %d", claims, id)
			}
		})
	}
}

func TestGetUserIDFromCtxRejectsBadClaims(t *testing.T) {
	runWithClaims(t, nil, func(c *fiber.Ctx) {
		if _, err := GetUserIDFromCtx(c); err == nil {
			t.Errorf("expected error without a token")
		}
	})
	runWithClaims(t, jwt.MapClaims{}, func(c *fiber.Ctx) {
		if _, err := GetUserIDFromCtx(c); err == nil {
			t.Errorf("expected error without a user_id claim")
		}
	})
	runWithClaims(t, jwt.MapClaims{"user_id": "not-a-number"}, func(c *fiber.Ctx) {
		if _, err := GetUserIDFromCtx(c); err == nil {
			t.Errorf("expected error for a non-numeric user_id")
		}
	})
}

func TestIsAdminFromCtx(t *testing.T) {
	runWithClaims(t, jwt.MapClaims{"user_id": float64(1), "role": "admin"}, func(c *fiber.Ctx) {
		if !IsAdminFromCtx(c) {
			t.Errorf("expected admin role to be recognized")
		}
	})
	runWithClaims(t, jwt.MapClaims{"user_id": float64(1), "role": "customer"}, func(c *fiber.Ctx) {
		if IsAdminFromCtx(c) {
			t.Errorf("expected non-admin role to be rejected")
		}
	})
	runWithClaims(t, jwt.MapClaims{"user_id": float64(1)}, func(c *fiber.Ctx) {
		if IsAdminFromCtx(c) {
			t.Errorf("expected missing role to be rejected")
		}
	})
	runWithClaims(t, nil, func(c *fiber.Ctx) {
		if IsAdminFromCtx(c) {
			t.Errorf("expected no token to be rejected")
		}
	})
}
