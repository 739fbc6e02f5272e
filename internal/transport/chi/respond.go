package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vitacart/prodex/internal/domain"
)

// Machine-readable error codes carried in error responses.
const (
	codeBadRequest       = "bad_request"
	codeInvalidQuery     = "invalid_query"
	codeUnauthorized     = "unauthorized"
	codeProductNotFound  = "product_not_found"
	codeNotFound         = "not_found"
	codeCatalogEmpty     = "catalog_empty"
	codeQuotaExceeded    = "embedding_quota_exceeded"
	codeProviderError    = "embedding_provider_error"
	codeIndexUnavailable = "index_unavailable"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// sentinelStatus maps a domain sentinel to an HTTP status and error code.
type sentinelStatus struct {
	err    error
	status int
	code   string
}

// sentinelStatuses is checked in order; the first match wins, so the more
// specific sentinel goes before the generic one it may wrap.
var sentinelStatuses = []sentinelStatus{
	{domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery},
	{domain.ErrVectorDimMismatch, http.StatusBadRequest, codeBadRequest},
	{domain.ErrCatalogEmpty, http.StatusBadRequest, codeCatalogEmpty},
	{domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound},
	{domain.ErrNotFound, http.StatusNotFound, codeNotFound},
	{domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeQuotaExceeded},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError},
	{domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable},
}

// handleDomainError maps a usecase error onto the HTTP surface. Unknown
// errors become an opaque 500 so internals never leak to callers.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range sentinelStatuses {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	s.logger.Error("Unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
