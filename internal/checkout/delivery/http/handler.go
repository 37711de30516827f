package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tair/digital-market/internal/checkout/domain"
	"github.com/tair/digital-market/internal/checkout/usecase/command"
	customerhttp "github.com/tair/digital-market/internal/customer/delivery/http"
	customerdomain "github.com/tair/digital-market/internal/customer/domain"
	orderdomain "github.com/tair/digital-market/internal/order/domain"
)

// CheckoutHandler handles HTTP requests for the payment flow
type CheckoutHandler struct {
	initiateHandler *command.InitiatePaymentHandler
	confirmHandler  *command.ConfirmPaymentHandler

	customers      customerdomain.CustomerRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	ordersPlaced   prometheus.Counter
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	initiateHandler *command.InitiatePaymentHandler,
	confirmHandler *command.ConfirmPaymentHandler,
	customers customerdomain.CustomerRepository,
) *CheckoutHandler {
	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_service_requests_total",
			Help: "Total number of requests to checkout service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_service_request_duration_seconds",
			Help:    "Duration of checkout service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ordersPlaced := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_service_orders_placed_total",
			Help: "Total number of orders placed through checkout",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(ordersPlaced)

	return &CheckoutHandler{
		initiateHandler: initiateHandler,
		confirmHandler:  confirmHandler,
		customers:       customers,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		ordersPlaced:    ordersPlaced,
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
func (h *CheckoutHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

func (h *CheckoutHandler) customerID(r *http.Request) uint {
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

// InitiatePayment handles POST /api/checkout/payment. The delivery form is
// stashed until the provider confirms; nothing is written to the order
// tables yet.
func (h *CheckoutHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	var form orderdomain.DeliveryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.initiateHandler.Handle(r.Context(), command.InitiatePaymentCommand{
		CustomerID: customerID,
		Delivery:   form,
	})
	if err != nil {
		switch {
		case errors.Is(err, orderdomain.ErrEmptyCart):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrProviderFailure):
			h.respondError(w, http.StatusBadGateway, err.Error())
		default:
			h.respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ConfirmPayment handles POST /api/checkout/success, the provider's
// return leg. A repeated callback reads as an expired checkout.
func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	order, err := h.confirmHandler.Handle(r.Context(), command.ConfirmPaymentCommand{
		CustomerID: customerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCheckoutExpired):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, orderdomain.ErrEmptyCart):
			h.respondError(w, http.StatusConflict, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.ordersPlaced.Inc()
	h.respondJSON(w, http.StatusCreated, order)
}

// respondJSON sends a JSON response
func (h *CheckoutHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *CheckoutHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all checkout routes
func (h *CheckoutHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/checkout/payment", h.metricsMiddleware("/api/checkout/payment", customerhttp.AuthMiddleware(h.InitiatePayment))).Methods("POST")
	router.HandleFunc("/api/checkout/success", h.metricsMiddleware("/api/checkout/success", customerhttp.AuthMiddleware(h.ConfirmPayment))).Methods("POST")
}
