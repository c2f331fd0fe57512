package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-editor/internal/editor"
	"cv-editor/internal/services/health"
	"cv-editor/internal/shared/config"
	"cv-editor/internal/shared/metrics"
	"cv-editor/internal/shared/server/middleware"
)

// RouterDeps holds everything the router mounts.
type RouterDeps struct {
	Config  config.Config
	Editor  *editor.Handler
	Health  *health.Service
	Limiter *middleware.RateLimiter
}

// Rate limit groups for the expensive or remote operations.
const (
	groupImport = "IMPORT"
	groupPrint  = "PRINT"
	groupRemote = "REMOTE"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.HTTP(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	base := deps.Config.APIBase
	if base == "" {
		base = "/api/v1"
	}
	api := r.Group(base)
	api.GET("/health", func(c *gin.Context) {
		rep := health.Report{OK: true}
		if deps.Health != nil {
			rep = deps.Health.Status(c.Request.Context())
		}
		status := http.StatusOK
		if !rep.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, rep)
	})
	api.GET("/metrics", metrics.Handler())

	authed := api.Group("")
	authed.Use(
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.Limiter,
			GroupFor: middleware.GroupByRoute(map[string]string{
				"POST " + base + "/cv/import/json": groupImport,
				"POST " + base + "/cv/import/pdf":  groupImport,
				"GET " + base + "/cv/pdf":          groupPrint,
				"POST " + base + "/cv/save":        groupRemote,
				"POST " + base + "/cv/load":        groupRemote,
			}),
			Rules: map[string]middleware.RateLimitRule{
				groupImport: {Rate: 0.2, Burst: 3},
				groupPrint:  {Rate: 0.5, Burst: 3},
				groupRemote: {Rate: 1, Burst: 5},
			},
		}),
	)
	registerMeRoutes(authed)
	if deps.Editor != nil {
		deps.Editor.RegisterRoutes(authed)
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, base+"/cv")
	})
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
