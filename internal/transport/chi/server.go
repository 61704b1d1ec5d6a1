package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/metrics"
	"github.com/cardoc/mechfind/internal/transport/wire"
	healthuc "github.com/cardoc/mechfind/internal/usecase/health"
)

// maxBodyBytes bounds the search request body.
const maxBodyBytes = 64 << 10

// ErrorCode is the machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	CodeInvalidQuery     ErrorCode = "invalid_query"
	CodeStoreUnavailable ErrorCode = "store_unavailable"
	CodeStoreTimeout     ErrorCode = "store_timeout"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeInternalError    ErrorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs provider searches.
type Searcher interface {
	Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the provider search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	fetchTimeout  time.Duration
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. fetchTimeout bounds each search (0 = no bound).
func NewServer(search Searcher, health HealthChecker, fetchTimeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:       search,
		health:       health,
		logger:       logger,
		fetchTimeout: fetchTimeout,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		storeTimeoutHandler,
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1/providers", func(r chi.Router) {
		r.Post("/search", s.SearchProviders)
		r.Get("/search", s.SearchProvidersGet)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
}

// SearchProviders handles POST /api/v1/providers/search.
func (s *Server) SearchProviders(w http.ResponseWriter, r *http.Request) {
	var body wire.SearchRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidQuery, "invalid request body")
			return
		}
	}

	q, err := body.Query()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.runSearch(w, r, &q)
}

// searchParams are the GET /api/v1/providers/search query parameters.
type searchParams struct {
	Text *string
	Lat  *float64
	Lon  *float64
	Sort *string
}

// SearchProvidersGet handles GET /api/v1/providers/search.
func (s *Server) SearchProvidersGet(w http.ResponseWriter, r *http.Request) {
	var params searchParams
	values := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"text", &params.Text},
		{"lat", &params.Lat},
		{"lon", &params.Lon},
		{"sort", &params.Sort},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidQuery,
				fmt.Sprintf("invalid format for parameter %s", b.name))
			return
		}
	}

	q, err := wire.QueryFromParams(deref(params.Text), params.Lat, params.Lon, deref(params.Sort))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.runSearch(w, r, &q)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, q *query.SearchQuery) {
	ctx := r.Context()
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	out, err := s.search.Search(ctx, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromOutcome(out))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Version:   report.Version,
		Timestamp: report.Timestamp.Format(time.RFC3339),
		Uptime:    report.Uptime.Truncate(time.Second).String(),
		Checks:    checks,
	})
}

type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, wire.ErrorResponse{
		Code:    string(code),
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing store internals.
func safeDomainMessage(err error) string {
	var iqe *domain.InvalidQueryError
	if errors.As(err, &iqe) {
		return iqe.Error()
	}
	var sue *domain.StoreUnavailableError
	if errors.As(err, &sue) {
		if sue.DeadlineExceeded {
			return domain.ErrStoreUnavailable.Error() + ": deadline exceeded"
		}
		return domain.ErrStoreUnavailable.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func invalidQueryHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidQuery, msg)
	return true
}

// storeTimeoutHandler maps the deadline variant of ErrStoreUnavailable to 504.
func storeTimeoutHandler(w http.ResponseWriter, err error, msg string) bool {
	var sue *domain.StoreUnavailableError
	if !errors.As(err, &sue) || !sue.DeadlineExceeded {
		return false
	}
	writeError(w, http.StatusGatewayTimeout, CodeStoreTimeout, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
