// Package handler implements the HTTP Read API and the interactive map page.
// Handlers are methods on Server, split into files by resource (health.go,
// vacation.go, mappage.go). Router wires them into a chi mux together with
// the shared middleware stack.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/lolidays/apispec"
	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/middleware"
)

// maxRequestBody caps request bodies. The API has no write endpoints, so
// anything beyond a small preflight is unexpected.
const maxRequestBody = 64 << 10

// VacationServicer defines the read operations the API depends on.
// Defined in the consumer package so tests can inject a mock.
type VacationServicer interface {
	ListWithStops(ctx context.Context) ([]domain.VacationWithStops, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	vacations   VacationServicer
	mapboxToken string
	logger      *slog.Logger
}

// NewServer constructs the Server. mapboxToken is embedded in the map page
// so the browser can load map tiles.
func NewServer(vacations VacationServicer, mapboxToken string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{vacations: vacations, mapboxToken: mapboxToken, logger: logger}
}

// RouterOptions configures the middleware around the handlers.
type RouterOptions struct {
	// CORSOrigins lists origins allowed to call /api. "*" allows any.
	CORSOrigins []string
	// RateLimitPerMinute caps /api requests per client IP. Zero disables it.
	RateLimitPerMinute int
	// TrustProxyHeaders makes the client IP come from X-Forwarded-For or
	// X-Real-IP instead of the connection's RemoteAddr. Only set it behind a
	// proxy that overwrites those headers, otherwise clients pick their own
	// rate-limit key.
	TrustProxyHeaders bool
}

// Router returns the full HTTP handler for the web server.
//
// Middleware order: RequestID → RealIP (only with TrustProxyHeaders) →
// SlogLogger → Recoverer, the same for every route. /api additionally gets CORS, a per-IP rate limit and a
// body-size cap.
func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewSlogLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/ping", s.Ping)
	r.Get("/", s.MapPage)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		origins := opts.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(middleware.NewCORSHandler(origins))
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
		}
		r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

		r.Get("/vacations", s.ListVacations)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(apispec.OpenAPI)
}
