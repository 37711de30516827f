package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tair/digital-market/internal/catalog/domain"
	"github.com/tair/digital-market/internal/catalog/usecase/command"
	"github.com/tair/digital-market/internal/catalog/usecase/query"
	customerhttp "github.com/tair/digital-market/internal/customer/delivery/http"
)

// CatalogHandler handles HTTP requests for the product catalog
type CatalogHandler struct {
	// Command handlers
	toggleFavoriteHandler *command.ToggleFavoriteHandler

	// Query handlers
	listCategoriesHandler   *query.ListCategoriesHandler
	categoryProductsHandler *query.GetCategoryProductsHandler
	getProductHandler       *query.GetProductHandler
	searchHandler           *query.SearchProductsHandler
	listFavoritesHandler    *query.ListFavoritesHandler

	repo           domain.CatalogRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(repo domain.CatalogRepository) *CatalogHandler {
	// Initialize command handlers
	toggleFavoriteHandler := command.NewToggleFavoriteHandler(repo)

	// Initialize query handlers
	listCategoriesHandler := query.NewListCategoriesHandler(repo)
	categoryProductsHandler := query.NewGetCategoryProductsHandler(repo)
	getProductHandler := query.NewGetProductHandler(repo)
	searchHandler := query.NewSearchProductsHandler(repo)
	listFavoritesHandler := query.NewListFavoritesHandler(repo)

	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		toggleFavoriteHandler:   toggleFavoriteHandler,
		listCategoriesHandler:   listCategoriesHandler,
		categoryProductsHandler: categoryProductsHandler,
		getProductHandler:       getProductHandler,
		searchHandler:           searchHandler,
		listFavoritesHandler:    listFavoritesHandler,
		repo:                    repo,
		requestCounter:          requestCounter,
		requestLatency:          requestLatency,
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
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listCategoriesHandler.Handle(query.ListCategoriesQuery{})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

// CategoryProducts handles GET /api/categories/{slug}/products
func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	priceMin, _ := strconv.Atoi(r.URL.Query().Get("price_min"))
	priceMax, _ := strconv.Atoi(r.URL.Query().Get("price_max"))

	q := query.GetCategoryProductsQuery{
		Slug:      vars["slug"],
		Page:      page,
		PageSize:  pageSize,
		PriceMin:  priceMin,
		PriceMax:  priceMax,
		ModelSlug: r.URL.Query().Get("model"),
	}

	result, err := h.categoryProductsHandler.Handle(q)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/products/{slug}. When the request carries a
// valid token the payload also reports whether the product is favorited.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := h.getProductHandler.Handle(query.GetProductQuery{Slug: vars["slug"]})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	favorited := false
	if userID := customerhttp.UserIDFromContext(r.Context()); userID != 0 {
		favorited, _ = h.repo.IsFavorite(userID, result.Product.ID)
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"product":      result.Product,
		"same_model":   result.SameModel,
		"same_family":  result.SameFamily,
		"is_favorited": favorited,
	})
}

// Search handles GET /api/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	q := query.SearchProductsQuery{
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}

	products, err := h.searchHandler.Handle(q)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, products)
}

// ToggleFavorite handles POST /api/products/{slug}/favorite
func (h *CatalogHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := customerhttp.UserIDFromContext(r.Context())
	if userID == 0 {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	vars := mux.Vars(r)
	cmd := command.ToggleFavoriteCommand{
		UserID:      userID,
		ProductSlug: vars["slug"],
	}

	favorited, err := h.toggleFavoriteHandler.Handle(cmd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

// ListFavorites handles GET /api/favorites
func (h *CatalogHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := customerhttp.UserIDFromContext(r.Context())
	if userID == 0 {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	favorites, err := h.listFavoritesHandler.Handle(query.ListFavoritesQuery{UserID: userID})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, favorites)
}

// respondJSON sends a JSON response
func (h *CatalogHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *CatalogHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/categories", h.metricsMiddleware("/api/categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/categories/{slug}/products", h.metricsMiddleware("/api/categories/{slug}/products", h.CategoryProducts)).Methods("GET")
	router.HandleFunc("/api/products/{slug}", h.metricsMiddleware("/api/products/{slug}", customerhttp.OptionalAuthMiddleware(h.GetProduct))).Methods("GET")
	router.HandleFunc("/api/search", h.metricsMiddleware("/api/search", h.Search)).Methods("GET")

	// Authenticated routes
	router.HandleFunc("/api/products/{slug}/favorite", h.metricsMiddleware("/api/products/{slug}/favorite", customerhttp.AuthMiddleware(h.ToggleFavorite))).Methods("POST")
	router.HandleFunc("/api/favorites", h.metricsMiddleware("/api/favorites", customerhttp.AuthMiddleware(h.ListFavorites))).Methods("GET")
}
