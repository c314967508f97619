package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"customer-service/internal/platform/metrics"
	"customer-service/internal/platform/middleware"
	"customer-service/pkg/platform/httputil"
	"customer-service/pkg/platform/middleware/metadata"
	"customer-service/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// routeRegistrar is implemented by every module handler.
type routeRegistrar interface {
	Register(r chi.Router)
}

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

type routerDeps struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	health    []healthCheck
	customers routeRegistrar
	kyc       routeRegistrar
	docTypes  routeRegistrar
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Latency(deps.metrics))

	r.Get("/healthz", healthHandler(deps.health))
	r.Handle("/metrics", promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{}))

	deps.customers.Register(r)
	deps.kyc.Register(r)
	deps.docTypes.Register(r)
	return r
}

func healthHandler(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				components[c.name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[c.name] = "ok"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": overall, "components": components})
	}
}
