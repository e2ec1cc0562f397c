package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	metricsOnce sync.Once
	prom        *fiberprometheus.FiberPrometheus
)

// InitMetrics registers the HTTP request collectors and mounts /metrics on
// app. The collectors are created once per process so repeated servers (as in
// tests) share them.
func InitMetrics(app *fiber.App, serviceName string) fiber.Handler {
	metricsOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	prom.RegisterAt(app, "/metrics")
	return prom.Middleware
}
