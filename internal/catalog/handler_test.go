package catalog

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeAppWithCatalogHandler() *fiber.App {
	repo := NewInMemoryRepository([]Food{
		{ID: 1, Name: "Paneer Tikka", Price: 220.00, Category: "Starters"},
		{ID: 2, Name: "Garlic Naan", Price: 40.00, Category: "Breads"},
		{ID: 3, Name: "Dal Makhani", Price: 180.00, Category: "Mains"},
	})
	handler := NewHandler(NewService(repo))
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	return app
}

func TestCatalogRoutes(t *testing.T) {
	app := makeAppWithCatalogHandler()

	// full menu
	req := httptest.NewRequest("GET", "/api/v1/foods", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for list, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Paneer Tikka") || !strings.Contains(string(b), "Dal Makhani") {
		t.Fatalf("expected full menu, got %s", string(b))
	}

	// ids filter
	req2 := httptest.NewRequest("GET", "/api/v1/foods?ids=2,3", nil)
	res2, _ := app.Test(req2)
	b2, _ := io.ReadAll(res2.Body)
	if strings.Contains(string(b2), "Paneer Tikka") || !strings.Contains(string(b2), "Garlic Naan") {
		t.Fatalf("expected only foods 2 and 3, got %s", string(b2))
	}

	req3 := httptest.NewRequest("GET", "/api/v1/foods?ids=2,x", nil)
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed ids, got %d", res3.StatusCode)
	}

	// single food
	req4 := httptest.NewRequest("GET", "/api/v1/foods/1", nil)
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for get, got %d", res4.StatusCode)
	}
	b4, _ := io.ReadAll(res4.Body)
	if !strings.Contains(string(b4), `"price":220`) {
		t.Fatalf("unexpected food body %s", string(b4))
	}

	req5 := httptest.NewRequest("GET", "/api/v1/foods/99", nil)
	res5, _ := app.Test(req5)
	if res5.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown food, got %d", res5.StatusCode)
	}
}
