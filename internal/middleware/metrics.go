package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheErrors counts Redis cache errors by operation type.
var CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ripple_cache_errors_total",
	Help: "Total number of Redis cache errors by operation type",
}, []string{"operation"})

// PostSaveConflicts counts optimistic-lock conflicts on post writes.
var PostSaveConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ripple_post_save_conflicts_total",
	Help: "Total number of version conflicts on post save",
})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request metrics handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
