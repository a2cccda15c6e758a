package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/generation"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/subscriptions"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

const aiRateLimitGroup = "AI"

// RouterDeps carries the handlers mounted on the engine. Nil handlers are skipped.
type RouterDeps struct {
	Config               config.Config
	Health               *health.Service
	UsersHandler         *users.Handler
	ResumesHandler       *resumes.Handler
	SubscriptionsHandler *subscriptions.Handler
	UsageHandler         *usage.Handler
	GenerationHandler    *generation.Handler
	GoogleAuth           *googleauth.GoogleService
	RateLimiter          *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		subscriptions.RequestCache(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.SubscriptionsHandler != nil {
		deps.SubscriptionsHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}
	if deps.GenerationHandler != nil {
		ai := api.Group("")
		ai.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				aiRateLimitGroup: {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if strings.HasPrefix(c.Request.URL.Path, "/api/v1/ai/") {
					return aiRateLimitGroup
				}
				return ""
			},
			Limiter: deps.RateLimiter,
		}))
		deps.GenerationHandler.RegisterRoutes(ai)
	}

	if deps.Config.IsDevLike() {
		dev := api.Group("/dev")
		if deps.SubscriptionsHandler != nil {
			deps.SubscriptionsHandler.RegisterDevRoutes(dev)
		}
		if deps.UsageHandler != nil {
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
