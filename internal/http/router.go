// Package httpapi assembles the service's HTTP surface: the shared middleware
// chain, the identity and task route groups, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityHandler "taskboard/internal/identity/handler"
	"taskboard/internal/platform/metrics"
	"taskboard/internal/platform/middleware"
	taskHandler "taskboard/internal/task/handler"
	"taskboard/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Dependencies carries everything the router needs. Health is optional; when
// set, /healthz reports degraded on failure instead of a bare ok.
type Dependencies struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Identity *identityHandler.Handler
	Tasks    *taskHandler.Handler
	Health   func(*http.Request) error
}

// NewRouter wires the middleware chain and mounts every route group.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(deps.Metrics))

	deps.Identity.Register(r)
	deps.Tasks.Register(r)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(check func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
