package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/provider-directory/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// MetricsHandler records request metrics and serves the scrape endpoint.
type MetricsHandler interface {
	Middleware() gin.HandlerFunc
	Handler() gin.HandlerFunc
}

type Router struct {
	engine   *gin.Engine
	config   RouterConfig
	api      Handler
	health   Handler
	web      Handler
	metrics  MetricsHandler
	renderer func(*gin.Engine)
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	MaxBodyBytes     int64
	Logger           zerolog.Logger
}

// NewRouter wires the global middleware chain. web and metrics may be nil
// when those surfaces are disabled.
func NewRouter(api, health, web Handler, metrics MetricsHandler, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:  engine,
		config:  config,
		api:     api,
		health:  health,
		web:     web,
		metrics: metrics,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(config.Logger),
		middleware.Logger(config.Logger),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}
	engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

// WithTemplates installs the HTML renderer used by the web handler.
func (r *Router) WithTemplates(install func(*gin.Engine)) *Router {
	r.renderer = install
	return r
}

func (r *Router) Setup() {
	root := &r.engine.RouterGroup

	r.health.RegisterRoutes(root)
	if r.metrics != nil {
		r.engine.GET("/metrics", r.metrics.Handler())
	}

	if r.web != nil {
		if r.renderer != nil {
			r.renderer(r.engine)
		}
		r.web.RegisterRoutes(root)
	}

	api := r.engine.Group("")
	api.Use(middleware.NoStore())
	if r.config.MaxBodyBytes > 0 {
		api.Use(middleware.SizeLimit(middleware.SizeLimitConfig{MaxBodySize: r.config.MaxBodyBytes}))
	}
	r.api.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
