package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerSpec = "/swagger/fastboat.swagger.json"

type Handlers struct {
	Catalog  *CatalogHandler
	Bookings *BookingHandler
	Payments *PaymentHandler
	Admin    *AdminHandler
}

type RouterOptions struct {
	// SwaggerDir holds fastboat.swagger.json; docs are disabled when empty.
	SwaggerDir string
	// Healthz serves the gRPC health status over HTTP.
	Healthz http.Handler
	// Idempotency is optional; without it Idempotency-Key is ignored.
	Idempotency IdempotencyStore
}

func NewRouter(h Handlers, opts RouterOptions, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log), Metrics())

	router.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Healthz != nil {
		router.GET("/healthz", gin.WrapH(opts.Healthz))
	}
	if opts.SwaggerDir != "" {
		router.Static("/swagger", opts.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpec))))
	}

	idempotency := Idempotency(opts.Idempotency, log)

	v1 := router.Group("/api/v1")
	h.Catalog.Register(v1.Group("/catalog"))
	h.Bookings.Register(v1.Group("/bookings"), idempotency)
	h.Payments.Register(v1.Group("/payments"), idempotency)
	h.Admin.Register(v1.Group("/admin"))

	return router
}
