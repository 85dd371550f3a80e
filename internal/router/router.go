package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/pkg/metrics"
)

// Handler is anything that can hang routes off the API group. Handlers own
// their role requirements, so the router stays ignorant of authorization.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

type Router struct {
	engine *gin.Engine
	h      *handler.Handler
}

func New(cfg Config, h *handler.Handler, m *metrics.Metrics, handlers ...Handler) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		metricsMiddleware(m),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.CORS(cfg.CORS),
	)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})
	engine.Use(limiter.RateLimit())

	r := &Router{engine: engine, h: h}

	api := engine.Group("/api/v1")
	r.setupHealthCheck(api)
	for _, hdl := range handlers {
		hdl.RegisterRoutes(api)
	}

	return r
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
	rg.GET("/metrics", r.h.MetricsHandler)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// FullPath keeps the label cardinality bounded by routes, not URLs.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
