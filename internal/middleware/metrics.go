package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dwellr_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for HTTP metrics. The
// underlying collectors register globally, so repeated calls return the same
// instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware wraps the fiberprometheus handler as a fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
