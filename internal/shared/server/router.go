package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "screening-backend/internal/auth"
	"screening-backend/internal/batches"
	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/results"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/config"
	"screening-backend/internal/shared/metrics"
	"screening-backend/internal/shared/server/middleware"
	"screening-backend/internal/shared/server/respond"
	"screening-backend/internal/tenants"
	"screening-backend/internal/usage"
	"screening-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config  config.Config
	Metrics *metrics.Metrics

	Tenants    *tenants.Handler
	Users      *users.Handler
	Resumes    *resumes.Handler
	JDs        *jobdescriptions.Handler
	Batches    *batches.Handler
	Jobs       *jobs.Handler
	Results    *results.Handler
	Usage      *usage.Handler
	GoogleAuth *googleauth.GoogleService
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
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"UPLOAD": {Rate: 2, Burst: 10},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/uploads" {
					return "UPLOAD"
				}
				return ""
			},
		}),
		middleware.Auth(deps.Config.Env),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Observe())
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.Metrics != nil {
		api.GET("/metrics", deps.Metrics.Handler())
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Tenants != nil {
		deps.Tenants.RegisterRoutes(api)
	}
	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api)
	}
	if deps.JDs != nil {
		deps.JDs.RegisterRoutes(api)
	}
	if deps.Batches != nil {
		deps.Batches.RegisterRoutes(api)
	}
	if deps.Jobs != nil {
		deps.Jobs.RegisterRoutes(api)
	}
	if deps.Results != nil {
		deps.Results.RegisterRoutes(api)
	}
	if deps.Usage != nil {
		deps.Usage.RegisterRoutes(api)
	}
	if deps.Config.Env == "dev" && deps.Usage != nil {
		dev := api.Group("/dev")
		deps.Usage.RegisterDevRoutes(dev)
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
