package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tair/digital-market/api-gateway/config"
	"github.com/tair/digital-market/api-gateway/health"
	"github.com/tair/digital-market/api-gateway/middleware"
	"github.com/tair/digital-market/api-gateway/proxy"
)

// AuthLevel controls which auth middleware guards a route prefix
type AuthLevel int

const (
	AuthNone     AuthLevel = iota // Public
	AuthOptional                  // Token decoded when present
	AuthRequired                  // Valid token required
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix      string
	ServiceName string
	Description string
	Auth        AuthLevel
}

// Routes holds all route definitions. Everything proxies to the
// storefront; only the auth requirement differs per prefix.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "storefront",
		Description: "Authentication endpoints (login, register)",
		Auth:        AuthNone,
	},
	{
		Prefix:      "/api/categories",
		ServiceName: "storefront",
		Description: "Category tree and category product listings",
		Auth:        AuthNone,
	},
	{
		Prefix:      "/api/search",
		ServiceName: "storefront",
		Description: "Product title search",
		Auth:        AuthNone,
	},
	{
		Prefix:      "/api/products",
		ServiceName: "storefront",
		Description: "Product detail and favorite toggle",
		Auth:        AuthOptional,
	},
	{
		Prefix:      "/api/cart",
		ServiceName: "storefront",
		Description: "Cart snapshot and line mutations",
		Auth:        AuthOptional,
	},
	{
		Prefix:      "/api/favorites",
		ServiceName: "storefront",
		Description: "Favorite product listing",
		Auth:        AuthRequired,
	},
	{
		Prefix:      "/api/profile",
		ServiceName: "storefront",
		Description: "Customer profile",
		Auth:        AuthRequired,
	},
	{
		Prefix:      "/api/orders",
		ServiceName: "storefront",
		Description: "Order history",
		Auth:        AuthRequired,
	},
	{
		Prefix:      "/api/checkout",
		ServiceName: "storefront",
		Description: "Payment initiation and confirmation",
		Auth:        AuthRequired,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllServices(ctx))
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Digital Market API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Register all service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, redisClient)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	switch route.Auth {
	case AuthRequired:
		middlewares = append(middlewares, middleware.AuthMiddleware())
	case AuthOptional:
		middlewares = append(middlewares, middleware.OptionalAuthMiddleware())
	}

	// Payment initiation gets a tighter per-account limit
	if route.Prefix == "/api/checkout" && redisClient != nil {
		middlewares = append(middlewares, middleware.CheckoutRateLimiter(redisClient))
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
