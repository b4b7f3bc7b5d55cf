package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/accounts"
	"resume-builder/internal/builder"
	"resume-builder/internal/generations"
	"resume-builder/internal/resumes"
	"resume-builder/internal/screening"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/validation"
	"resume-builder/internal/templates"
)

const apiPrefix = "/api/v1"

// RouterDeps are the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config      config.Config
	Accounts    *accounts.Service
	AccountsAPI *accounts.Handler
	GoogleLogin *accounts.GoogleLogin
	Builder     *builder.Handler
	Resumes     *resumes.Handler
	Generations *generations.Handler
	Screening   *screening.Handler
	Templates   *templates.Handler
	Health      *health.Service
	RateLimiter *middleware.RateLimiter
}

// Rate limit groups.
const (
	groupPreview  = "PREVIEW"
	groupExport   = "EXPORT"
	groupGenerate = "GENERATE"
	groupAuth     = "AUTH"
)

var rateLimitRules = map[string]middleware.RateLimitRule{
	groupPreview:  {Rate: 5, Burst: 20},
	groupExport:   {Rate: 0.5, Burst: 5},
	groupGenerate: {Rate: 0.2, Burst: 5},
	groupAuth:     {Rate: 0.5, Burst: 10},
}

var rateLimitRoutes = map[string]string{
	"GET " + apiPrefix + "/builder/preview":        groupPreview,
	"POST " + apiPrefix + "/builder/export/:format": groupExport,
	"POST " + apiPrefix + "/builder/summary":        groupGenerate,
	"POST " + apiPrefix + "/generate":               groupGenerate,
	"POST " + apiPrefix + "/ats/score-file":         groupExport,
	"POST " + apiPrefix + "/auth/signin":            groupAuth,
	"POST " + apiPrefix + "/auth/signup":            groupAuth,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()
	r := gin.New()

	authOpts := []middleware.AuthOption{
		middleware.WithPublicPaths(
			apiPrefix+"/health",
			apiPrefix+"/metrics",
			apiPrefix+"/templates",
			apiPrefix+"/auth/signup",
			apiPrefix+"/auth/signin",
			apiPrefix+"/auth/signout",
		),
	}
	if deps.Accounts != nil {
		authOpts = append(authOpts, middleware.WithRevocationCheck(deps.Accounts.IsRevoked))
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env, authOpts...),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules,
			GroupFor: middleware.GroupByRoute(rateLimitRoutes),
			Limiter:  deps.RateLimiter,
		}),
	)

	api := r.Group(apiPrefix)
	registerOpsRoutes(api, deps.Health)
	if deps.AccountsAPI != nil {
		deps.AccountsAPI.RegisterRoutes(api)
	}
	if deps.GoogleLogin != nil {
		deps.GoogleLogin.RegisterRoutes(api)
	}
	if deps.Templates != nil {
		deps.Templates.RegisterRoutes(api)
	}
	if deps.Builder != nil {
		deps.Builder.RegisterRoutes(api)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api)
	}
	if deps.Generations != nil {
		deps.Generations.RegisterRoutes(api)
	}
	if deps.Screening != nil {
		deps.Screening.RegisterRoutes(api)
	}
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
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
