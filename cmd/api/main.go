package main

import (
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/foodkart/food-order-backend/internal/billing"
	"github.com/foodkart/food-order-backend/internal/cart"
	"github.com/foodkart/food-order-backend/internal/catalog"
	"github.com/foodkart/food-order-backend/internal/config"
	"github.com/foodkart/food-order-backend/internal/notify"
	"github.com/foodkart/food-order-backend/internal/order"
	"github.com/foodkart/food-order-backend/internal/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + payment.SignatureHeader,
	}))

	broker := notify.NewBroker()

	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	catalogHandler := catalog.NewHandler(catalogService)

	cartService := cart.NewService(cart.NewPostgresRepository(db))
	cartHandler := cart.NewHandler(cartService)

	gateway := payment.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewaySecret, cfg.GatewayTimeout)
	orderService := order.NewService(order.NewPostgresRepository(db), cartService, catalogService,
		gateway, broker, cfg.TaxRate, cfg.Currency, cfg.GatewayTimeout)
	orderHandler := order.NewHandler(orderService)

	paymentService := payment.NewService(orderService, cfg.GatewaySecret, cfg.WebhookSecret)
	paymentHandler := payment.NewHandler(paymentService)

	billingHandler := billing.NewHandler(orderService)

	// public surface: menu reads and the signature-authenticated webhook
	catalogHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterAdminRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	billingHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

func ensureSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS foods (
        food_id SERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        price numeric NOT NULL DEFAULT 0,
        description TEXT,
        category TEXT
    )`); err != nil {
		panic(err)
	}

	// carts intentionally has no unique index on user_id: concurrent first
	// writes may create duplicate rows and the cart service merges them
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS carts (
        cart_id SERIAL PRIMARY KEY,
        user_id INT NOT NULL,
        items jsonb NOT NULL DEFAULT '{}'
    )`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
        id SERIAL PRIMARY KEY,
        order_id TEXT NOT NULL UNIQUE,
        customer_id INT NOT NULL,
        items jsonb NOT NULL DEFAULT '[]',
        sub_total numeric NOT NULL DEFAULT 0,
        tax_rate numeric NOT NULL DEFAULT 0,
        tax_amount numeric NOT NULL DEFAULT 0,
        grand_total numeric NOT NULL DEFAULT 0,
        payment_mode TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        gateway_order_id TEXT,
        gateway_signature TEXT,
        payment_id TEXT,
        payment_status TEXT,
        paid_at TIMESTAMPTZ,
        billing jsonb
    )`); err != nil {
		panic(err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS orders_gateway_order_id_idx ON orders (gateway_order_id)`); err != nil {
		fmt.Printf("warning: could not create gateway order index: %v\n", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS orders_customer_id_idx ON orders (customer_id)`); err != nil {
		fmt.Printf("warning: could not create customer index: %v\n", err)
	}
}
