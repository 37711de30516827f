package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	carthttp "github.com/tair/digital-market/internal/cart/delivery/http"
	cartrepository "github.com/tair/digital-market/internal/cart/repository"
	cartquery "github.com/tair/digital-market/internal/cart/usecase/query"
	cataloghttp "github.com/tair/digital-market/internal/catalog/delivery/http"
	catalogrepository "github.com/tair/digital-market/internal/catalog/repository"
	checkouthttp "github.com/tair/digital-market/internal/checkout/delivery/http"
	"github.com/tair/digital-market/internal/checkout/provider"
	checkoutrepository "github.com/tair/digital-market/internal/checkout/repository"
	checkoutcommand "github.com/tair/digital-market/internal/checkout/usecase/command"
	customerhttp "github.com/tair/digital-market/internal/customer/delivery/http"
	customerrepository "github.com/tair/digital-market/internal/customer/repository"
	orderhttp "github.com/tair/digital-market/internal/order/delivery/http"
	orderrepository "github.com/tair/digital-market/internal/order/repository"
	ordercommand "github.com/tair/digital-market/internal/order/usecase/command"
	orderquery "github.com/tair/digital-market/internal/order/usecase/query"
	"github.com/tair/digital-market/kafka"
	"github.com/tair/digital-market/pkg/config"
	"github.com/tair/digital-market/pkg/database"
	"github.com/tair/digital-market/pkg/logger"
	"github.com/tair/digital-market/pkg/tracing"
)

const serviceName = "storefront-service"

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Initialize repositories
	catalogRepo := catalogrepository.NewGormCatalogRepositoryWithTracing(db)
	customerRepo := customerrepository.NewGormCustomerRepository(db)
	cartRepo := cartrepository.NewGormCartRepository(db)
	orderRepo := orderrepository.NewGormOrderRepository(db)

	// Run migrations
	for _, migrate := range []func() error{
		catalogRepo.AutoMigrate,
		customerRepo.AutoMigrate,
		cartRepo.AutoMigrate,
		orderRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Redis holds the pending checkout stash
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	pendingStore := checkoutrepository.NewRedisPendingStore(redisClient)

	// Kafka publisher for order events; the service runs without it
	var events checkoutcommand.OrderEventPublisher
	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, order events disabled")
	} else {
		defer publisher.Close()
		events = publisher
	}

	// Payment provider
	paymentProvider := provider.NewHostedCheckoutClient(provider.Config{
		APIURL:     cfg.PaymentAPIURL,
		StoreID:    cfg.PaymentStoreID,
		AuthKey:    cfg.PaymentAuthKey,
		SuccessURL: cfg.PaymentSuccessURL,
		CancelURL:  cfg.PaymentCancelURL,
		TestMode:   cfg.IsDevelopment(),
	})

	// Checkout command handlers
	getCartHandler := cartquery.NewGetCartHandler(cartRepo)
	placeOrderHandler := ordercommand.NewPlaceOrderHandler(orderRepo, cartRepo)
	initiateHandler := checkoutcommand.NewInitiatePaymentHandler(getCartHandler, paymentProvider, pendingStore, cfg.PendingCheckoutTTL, cfg.PaymentCurrency)
	confirmHandler := checkoutcommand.NewConfirmPaymentHandler(pendingStore, placeOrderHandler, orderRepo, events)

	// Query handlers shared across contexts
	listOrdersHandler := orderquery.NewListOrdersHandler(orderRepo)

	// HTTP handlers
	catalogHandler := cataloghttp.NewCatalogHandler(catalogRepo)
	customerHandler := customerhttp.NewCustomerHandler(customerRepo, listOrdersHandler)
	cartHandler := carthttp.NewCartHandler(cartRepo, catalogRepo, customerRepo)
	orderHandler := orderhttp.NewOrderHandler(orderRepo, customerRepo)
	checkoutHandler := checkouthttp.NewCheckoutHandler(initiateHandler, confirmHandler, customerRepo)

	// Setup router
	router := mux.NewRouter()
	catalogHandler.RegisterRoutes(router)
	customerHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", healthCheck(sqlDB)).Methods("GET")

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := otelhttp.NewHandler(c.Handler(router), serviceName)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func healthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}
