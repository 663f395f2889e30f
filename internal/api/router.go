package api

import (
	"net/http"

	"github.com/af-corp/mathforge/internal/httputil"
	"github.com/af-corp/mathforge/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the outer surface of the router.
type RouterOptions struct {
	CORSAllowedOrigins []string
	Metrics            *telemetry.Metrics
	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler
}

// NewRouter wires every route and middleware around h.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog)
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	r.Use(Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, requestID(r), "The requested resource does not exist")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteMethodNotAllowedError(w, requestID(r), "Method "+r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/", h.Home)
	r.Get("/health", h.Health)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/arithmetic", h.Arithmetic)
		r.Post("/algebra/linear", h.Linear)
		r.Post("/algebra/quadratic", h.Quadratic)
		r.Post("/geometry/{shape}", h.Geometry)
		r.Post("/statistics", h.Statistics)
		r.Get("/quiz", h.Quiz)
		r.Post("/quiz/validate", h.QuizValidate)
		r.Get("/history", h.History)
		r.Delete("/history/clear", h.ClearHistory)
	})

	return r
}
