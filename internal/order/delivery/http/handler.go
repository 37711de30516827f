package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	customerhttp "github.com/tair/digital-market/internal/customer/delivery/http"
	customerdomain "github.com/tair/digital-market/internal/customer/domain"
	"github.com/tair/digital-market/internal/order/domain"
	"github.com/tair/digital-market/internal/order/usecase/query"
)

// OrderHandler handles HTTP requests for the order history
type OrderHandler struct {
	listOrdersHandler *query.ListOrdersHandler
	getOrderHandler   *query.GetOrderHandler

	customers      customerdomain.CustomerRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(repo domain.OrderRepository, customers customerdomain.CustomerRepository) *OrderHandler {
	listOrdersHandler := query.NewListOrdersHandler(repo)
	getOrderHandler := query.NewGetOrderHandler(repo)

	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_service_requests_total",
			Help: "Total number of requests to order service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_service_request_duration_seconds",
			Help:    "Duration of order service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &OrderHandler{
		listOrdersHandler: listOrdersHandler,
		getOrderHandler:   getOrderHandler,
		customers:         customers,
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
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
func (h *OrderHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

func (h *OrderHandler) customerID(r *http.Request) uint {
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

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.listOrdersHandler.Handle(query.ListOrdersQuery{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/{id}. Orders belonging to a different
// customer read as not found.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID := h.customerID(r)
	if customerID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Customer not found for token")
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.getOrderHandler.Handle(query.GetOrderQuery{
		OrderID:    uint(id),
		CustomerID: customerID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

// respondJSON sends a JSON response
func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *OrderHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.metricsMiddleware("/api/orders", customerhttp.AuthMiddleware(h.ListOrders))).Methods("GET")
	router.HandleFunc("/api/orders/{id}", h.metricsMiddleware("/api/orders/{id}", customerhttp.AuthMiddleware(h.GetOrder))).Methods("GET")
}
