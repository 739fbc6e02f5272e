// Package chi is the HTTP transport: request decoding, error mapping,
// and response shaping over the usecase layer.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/domain/product"
	healthuc "github.com/vitacart/prodex/internal/usecase/health"
	"github.com/vitacart/prodex/internal/usecase/pipeline"
	searchuc "github.com/vitacart/prodex/internal/usecase/search"
)

const defaultListLimit = 50

// ProductReader reads products from the document store.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (product.Product, error)
	ListProducts(ctx context.Context, limit int) ([]product.Product, error)
}

// CatalogLoader runs the load pipelines.
type CatalogLoader interface {
	LoadProducts(ctx context.Context, path string) (*pipeline.Report, error)
	LoadCustomers(ctx context.Context, path string) (*pipeline.Report, error)
}

// LoadFiles are the configured default catalog file paths, used when an
// admin load request does not name a file.
type LoadFiles struct {
	Products  string
	Customers string
}

// Server is the HTTP API server.
type Server struct {
	search   *searchuc.Service
	products ProductReader
	loader   CatalogLoader
	health   *healthuc.Service
	files    LoadFiles
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	products ProductReader,
	loader CatalogLoader,
	health *healthuc.Service,
	files LoadFiles,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:   search,
		products: products,
		loader:   loader,
		health:   health,
		files:    files,
		logger:   logger,
	}
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chirouter.Router) {
	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/search", s.Search)
		r.Get("/products", s.ListProducts)
		r.Get("/products/{id}", s.GetProduct)
		r.Route("/admin", func(r chirouter.Router) {
			r.Post("/catalog/load", s.LoadCatalog)
			r.Post("/customers/load", s.LoadCustomers)
		})
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := req.toQuery()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	env, err := s.search.Route(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromEnvelope(env))
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Product id is required")
		return
	}

	p, err := s.products.GetProduct(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p.WithoutEmbedding())
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	products, err := s.products.ListProducts(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}

	writeJSON(w, http.StatusOK, productListResponse{Products: products, Count: len(products)})
}

// LoadCatalog handles POST /api/v1/admin/catalog/load.
func (s *Server) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	path, ok := s.loadPath(w, r, s.files.Products)
	if !ok {
		return
	}

	report, err := s.loader.LoadProducts(r.Context(), path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// LoadCustomers handles POST /api/v1/admin/customers/load.
func (s *Server) LoadCustomers(w http.ResponseWriter, r *http.Request) {
	path, ok := s.loadPath(w, r, s.files.Customers)
	if !ok {
		return
	}

	report, err := s.loader.LoadCustomers(r.Context(), path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// loadPath resolves the catalog file for an admin load request. The body
// is optional; an empty body falls back to the configured default.
func (s *Server) loadPath(w http.ResponseWriter, r *http.Request, fallback string) (string, bool) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return "", false
	}

	path := req.File
	if path == "" {
		path = fallback
	}
	if path == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "No catalog file configured")
		return "", false
	}
	return path, true
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
