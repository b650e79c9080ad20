package service

import (
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Options tune the HTTP layer.
type Options struct {
	// RequestLogging writes one log line per request.
	RequestLogging bool

	// MaxBodyBytes caps the size of request bodies. Zero means no limit.
	MaxBodyBytes int64

	// CORSOrigins lists the origins browsers may call the API from. "*" allows all of them.
	CORSOrigins []string
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(contacts ContactStore, logger *zap.Logger, opts Options) *gin.Engine {
	h := &handler{store: contacts, logger: logger}
	set := metrics.NewSet()

	router := gin.New()
	router.Use(requestIDMiddleware())
	if opts.RequestLogging {
		router.Use(loggerMiddleware(logger))
	} else {
		logger.Info("Turning off HTTP request logging.")
	}
	router.Use(recoveryMiddleware(logger), meterRequests(set), corsMiddleware(opts.CORSOrigins))

	router.GET("/liveness", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readiness", h.readiness)
	router.GET("/metrics", func(c *gin.Context) {
		set.WritePrometheus(c.Writer)
		metrics.WriteProcessMetrics(c.Writer)
	})

	api := router.Group("/api/contacts", limitBody(opts.MaxBodyBytes))
	api.POST("", h.createContact)
	api.GET("", h.findActiveContacts)
	api.GET("/deleted", h.findDeletedContacts)
	api.GET("/:id", h.findContactByID)
	api.PUT("/delete/:id", h.softDeleteContactByID)
	api.PUT("/recover/:id", h.recoverContactByID)
	api.PUT("/:id", h.updateContactByID)
	api.DELETE("/permanent/:id", h.deleteContactByID)
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
