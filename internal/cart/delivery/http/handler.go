package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tair/digital-market/internal/cart/domain"
	"github.com/tair/digital-market/internal/cart/usecase/command"
	"github.com/tair/digital-market/internal/cart/usecase/query"
	catalogdomain "github.com/tair/digital-market/internal/catalog/domain"
	customerhttp "github.com/tair/digital-market/internal/customer/delivery/http"
	customerdomain "github.com/tair/digital-market/internal/customer/domain"
)

// CartHandler handles HTTP requests for the shopping cart
type CartHandler struct {
	applyActionHandler *command.ApplyActionHandler
	getCartHandler     *query.GetCartHandler

	customers      customerdomain.CustomerRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	carts domain.CartRepository,
	catalog catalogdomain.CatalogRepository,
	customers customerdomain.CustomerRepository,
) *CartHandler {
	applyActionHandler := command.NewApplyActionHandler(carts, catalog)
	getCartHandler := query.NewGetCartHandler(carts)

	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_service_requests_total",
			Help: "Total number of requests to cart service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cart_service_request_duration_seconds",
			Help:    "Duration of cart service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CartHandler{
		applyActionHandler: applyActionHandler,
		getCartHandler:     getCartHandler,
		customers:          customers,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CartHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// customerID resolves the token's user to a customer id, zero for
// anonymous requests
func (h *CartHandler) customerID(r *http.Request) uint {
	userID := customerhttp.UserIDFromContext(r.Context())
	if userID == 0 {
		return 0
	}
	customer, err := h.customers.FindByUserID(userID)
	if err != nil {
		return 0
	}
	return customer.ID
}

// GetCart handles GET /api/cart. Anonymous requests get an empty snapshot.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	info, err := h.getCartHandler.Handle(query.GetCartQuery{CustomerID: h.customerID(r)})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, info)
}

// ApplyAction handles POST /api/cart/{slug}/{action}
func (h *CartHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	vars := mux.Vars(r)
	cmd := command.ApplyActionCommand{
		CustomerID:  customerID,
		ProductSlug: vars["slug"],
		Action:      vars["action"],
	}

	if err := h.applyActionHandler.Handle(cmd); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAction):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientStock):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, catalogdomain.ErrNotFound), errors.Is(err, domain.ErrCartNotFound):
			h.respondError(w, http.StatusNotFound, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// Return the refreshed snapshot so clients need no second round trip
	info, err := h.getCartHandler.Handle(query.GetCartQuery{CustomerID: customerID})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, info)
}

// ClearCart handles POST /api/cart/clear
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	cmd := command.ApplyActionCommand{
		CustomerID: customerID,
		Action:     domain.ActionClear,
	}

	if err := h.applyActionHandler.Handle(cmd); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// respondJSON sends a JSON response
func (h *CartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *CartHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", customerhttp.OptionalAuthMiddleware(h.GetCart))).Methods("GET")
	router.HandleFunc("/api/cart/clear", h.metricsMiddleware("/api/cart/clear", customerhttp.AuthMiddleware(h.ClearCart))).Methods("POST")
	router.HandleFunc("/api/cart/{slug}/{action}", h.metricsMiddleware("/api/cart/{slug}/{action}", customerhttp.AuthMiddleware(h.ApplyAction))).Methods("POST")
}
